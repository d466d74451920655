// Package dashboard implements the update cycle behind the Add and Reset
// buttons: given the trigger, the submitted form and the current dataset it
// computes the next dataset, its chart, the error text and the form values
// to show.
package dashboard

import (
	"salesdash/internal/chart"
	"salesdash/internal/core"
)

// Result is everything the page shows after one update.
type Result struct {
	Dataset core.Dataset
	Chart   chart.PieChart
	Error   string
	Form    core.Form
	// Accepted is false only for an Add that failed validation.
	Accepted bool
}

// Update runs one controller cycle. It has no side effects and never
// modifies ds; callers store Result.Dataset as the new state.
func Update(trig core.Trigger, form core.Form, ds core.Dataset) Result {
	switch trig {
	case core.TriggerReset:
		seed := core.SeedDataset()
		return Result{Dataset: seed, Chart: chart.Render(seed), Accepted: true}

	case core.TriggerAdd:
		rec, err := form.Record()
		if err != nil {
			// Keep what the user typed so it can be corrected.
			return Result{
				Dataset: ds,
				Chart:   chart.Render(ds),
				Error:   core.MsgMissingFields,
				Form:    form,
			}
		}
		next := ds.Append(rec)
		return Result{Dataset: next, Chart: chart.Render(next), Accepted: true}

	default:
		return Result{Dataset: ds, Chart: chart.Render(ds), Form: form, Accepted: true}
	}
}

package batch

import (
	"fmt"

	"Separator/internal/calc/separator"
)

type Input struct {
	Items []separator.Config `json:"items"`
}

type Item struct {
	Result  separator.Result `json:"result"`
	Display string           `json:"display,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

type Result struct {
	ValidCount int    `json:"valid_count"`
	Results    []Item `json:"results"`
}

func Calculate(in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	out := Result{Results: make([]Item, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := separator.Calculate(item)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		if res.Result.Valid {
			out.ValidCount++
		}
		out.Results = append(out.Results, Item{Result: res.Result, Display: res.Display, Warning: res.Warning})
	}
	return out, nil
}

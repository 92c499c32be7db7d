package scenario

import (
	"fmt"

	"go.uber.org/zap"
)

// Build validates the request and computes every (down payment, rate) pair in
// down-payment-major, rate-minor order. Pairs below the program minimum stay in
// place carrying their error so the batch is always downs × rates long.
func (e *Engine) Build(req Request) (*Batch, error) {
	if err := Validate(req); err != nil {
		e.logger.Warn("rejected scenario request",
			zap.String("op", "scenario.Build"),
			zap.Error(err),
		)
		return nil, err
	}

	p, err := e.newPlan(req)
	if err != nil {
		return nil, err
	}

	downs := req.DownPaymentPercents
	batch := &Batch{
		Program:           req.Program,
		Purpose:           req.Purpose,
		PropertyType:      req.PropertyType,
		PropertyValue:     p.propertyValue,
		ClosingDate:       req.ClosingDate,
		InterimDays:       p.interimDays,
		CatalogVersion:    req.ClosingCosts.Version,
		ClosingCosts:      p.closingCosts,
		ClosingCostsTotal: p.closingCostsTotal,
		Results:           make([]Result, 0, len(downs)*len(req.RateOptions)),
	}

	belowMinimum := 0
	for _, down := range downs {
		for _, option := range req.RateOptions {
			result := e.calculate(p, down, option)
			if !result.Valid() {
				belowMinimum++
			}
			batch.Results = append(batch.Results, result)
		}
	}

	e.logger.Info(fmt.Sprintf("computed %d %s %s scenarios (%d below program minimum)",
		len(batch.Results), req.Program, req.Purpose, belowMinimum),
		zap.String("op", "scenario.Build"),
	)
	return batch, nil
}

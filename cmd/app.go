package cmd

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"hrdash/config"
	"hrdash/dataset"
	"hrdash/ml"
)

// core is what every command needs to score an employee.
type core struct {
	dataset *dataset.Dataset
	encoder *ml.Encoder
	model   ml.MLModel
}

// loadCore reads the reference dataset and the model artifact in parallel and
// freezes the encoder over the dataset.
func loadCore(ctx context.Context, cfg *config.Config) (*core, error) {
	scaling, err := ml.ParseScaling(cfg.Model.Scaling)
	if err != nil {
		return nil, err
	}

	var c core
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds, err := dataset.Load(cfg.Data.Path)
		if err != nil {
			return fmt.Errorf("load dataset %s: %w", cfg.Data.Path, err)
		}
		c.dataset = ds
		return nil
	})
	g.Go(func() error {
		model, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path)
		if err != nil {
			return fmt.Errorf("load model %s: %w", cfg.Model.Path, err)
		}
		c.model = model
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.encoder, err = ml.NewEncoder(c.dataset, ml.WithScaling(scaling))
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}
	return &c, nil
}

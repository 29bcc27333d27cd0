package main

import (
	"fmt"
	"math"

	"partnerdelivery/cmd"
	"partnerdelivery/internal/adapters/out/postgres"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	count    int
	lat      float64
	lng      float64
	spreadKm float64
}

func newSeedOrdersCommand() *cobra.Command {
	opts := seedOptions{}
	c := &cobra.Command{
		Use:   "seed-orders",
		Short: "Publish randomly generated pending orders around a point",
		RunE: func(c *cobra.Command, _ []string) error {
			if opts.count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", opts.count)
			}
			if _, err := kernel.NewGeoPoint(opts.lat, opts.lng); err != nil {
				return fmt.Errorf("seed center: %w", err)
			}

			config, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err = postgres.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			app, err := cmd.NewCompositionRoot(c.Context(), config, db, logger)
			if err != nil {
				return err
			}
			defer app.Close() //nolint:errcheck // best effort on exit

			handler := app.CreateCreateOrderCommandHandler()
			fake := faker.New()
			for i := range opts.count {
				draft := randomDraft(fake, opts)
				command, err := commands.NewCreateOrderCommand(kernel.NewUUID(), draft)
				if err != nil {
					return fmt.Errorf("order %d: %w", i, err)
				}
				if err = handler.Handle(c.Context(), command); err != nil {
					return fmt.Errorf("order %d: %w", i, err)
				}
			}
			logger.Info("seeded orders", "count", opts.count)
			return nil
		},
	}

	c.Flags().IntVar(&opts.count, "count", 10, "number of orders to create")
	c.Flags().Float64Var(&opts.lat, "lat", 13.0827, "latitude of the seed center")
	c.Flags().Float64Var(&opts.lng, "lng", 80.2707, "longitude of the seed center")
	c.Flags().Float64Var(&opts.spreadKm, "spread", 5, "max distance in km of pickups and drops from the center")
	return c
}

func randomDraft(fake faker.Faker, opts seedOptions) commands.OrderDraft {
	pickup := jitter(fake, opts)
	drop := jitter(fake, opts)
	address := fake.Address()

	return commands.OrderDraft{
		PickupAddress: fmt.Sprintf("%s, %s", fake.Company().Name(), address.City()),
		PickupPoint:   &pickup,
		DropAddress:   fmt.Sprintf("%s, %s", address.StreetAddress(), address.City()),
		DropPoint:     &drop,
		PackageName:   fake.Lorem().Word(),
		Price:         fake.Float64(2, 50, 2500),
		WeightKg:      fake.Float64(1, 0, 20),
		Commission:    fake.Float64(2, 15, 120),
		CustomerID:    fake.UUID().V4(),
	}
}

// jitter returns a point within spreadKm of the center, clamped to valid coordinates.
func jitter(fake faker.Faker, opts seedOptions) kernel.GeoPoint {
	const kmPerDegree = 111.0
	dLat := fake.Float64(6, -1, 1) * opts.spreadKm / kmPerDegree
	dLng := fake.Float64(6, -1, 1) * opts.spreadKm /
		(kmPerDegree * math.Max(math.Cos(opts.lat*math.Pi/180), 0.01))

	lat := math.Max(-90, math.Min(90, opts.lat+dLat))
	lng := math.Max(-180, math.Min(180, opts.lng+dLng))
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return kernel.GeoPoint{}
	}
	return point
}

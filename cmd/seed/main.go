// Command seed fills an empty database with demo delivery reference data,
// vendors and a catalog of products.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	pgrepo "sunushop-backend/internal/repository/postgres"
	"sunushop-backend/pkg/logger"
	"sunushop-backend/pkg/utils"
)

func main() {
	var (
		seed     int64
		vendors  int
		products int
		password string
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Insert demo data into the database configured by DB_DSN",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			logger.Init(cfg.Env, cfg.LogLevel)

			if cfg.RunMigrations {
				if err := pgrepo.RunMigrations(cfg.DBUrl); err != nil {
					return fmt.Errorf("migrations: %w", err)
				}
			}
			pool, err := pgrepo.NewPgxPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}

			s := &seeder{
				gen:      newGenerator(seed),
				delivery: pgrepo.NewDeliveryRepository(pool),
				products: pgrepo.NewProductRepository(pool),
				users:    pgrepo.NewUserRepository(pool),
				tx:       pgrepo.NewTransactionManager(pool),
				hash:     hash,
			}
			return s.run(cmd.Context(), vendors, products)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed, same seed gives the same data")
	cmd.Flags().IntVar(&vendors, "vendors", 3, "number of vendor accounts")
	cmd.Flags().IntVar(&products, "products", 40, "number of products")
	cmd.Flags().StringVar(&password, "password", "sunushop2026", "password of the generated vendor accounts")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type seeder struct {
	gen      *generator
	delivery domain.DeliveryRepository
	products domain.ProductRepository
	users    domain.UserRepository
	tx       domain.TransactionManager
	hash     string
}

func (s *seeder) run(ctx context.Context, vendorCount, productCount int) error {
	ds := s.gen.build(vendorCount, productCount)
	log := logger.Get()

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.seedDelivery(ctx, &ds); err != nil {
			return fmt.Errorf("delivery: %w", err)
		}
		if err := s.seedCatalog(ctx, &ds); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Seed failed, nothing was written")
		return err
	}

	log.Info().
		Int("cities", len(ds.cities)).
		Int("regions", len(ds.regions)).
		Int("zones", len(ds.zones)).
		Int("transporteurs", len(ds.transporteurs)).
		Int("vendors", len(ds.vendors)).
		Int("products", ds.products).
		Msg("Seed complete")
	return nil
}

func (s *seeder) seedDelivery(ctx context.Context, ds *dataset) error {
	for i := range ds.cities {
		if err := s.delivery.CreateCity(ctx, &ds.cities[i]); err != nil {
			return err
		}
	}
	for i := range ds.regions {
		if err := s.delivery.CreateRegion(ctx, &ds.regions[i]); err != nil {
			return err
		}
	}
	for i := range ds.zones {
		if err := s.delivery.CreateZone(ctx, &ds.zones[i]); err != nil {
			return err
		}
	}
	for i := range ds.transporteurs {
		t := &ds.transporteurs[i]
		for _, z := range ds.zones {
			t.DeliveryZones = append(t.DeliveryZones, z.Name)
		}
		if err := s.delivery.CreateTransporteur(ctx, t); err != nil {
			return err
		}
	}
	for _, z := range ds.zones {
		for _, t := range ds.transporteurs {
			tarif := s.gen.tarif(z, t)
			if err := s.delivery.CreateTarif(ctx, &tarif); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context, ds *dataset) error {
	var leaves []string
	for i := range ds.categories {
		c := &ds.categories[i]
		if err := s.products.CreateCategory(ctx, &c.parent); err != nil {
			return err
		}
		for j := range c.children {
			child := &c.children[j]
			child.ParentID = &c.parent.ID
			if err := s.products.CreateCategory(ctx, child); err != nil {
				return err
			}
			leaves = append(leaves, child.ID)
		}
	}

	var vendorIDs []string
	for i := range ds.vendors {
		v := &ds.vendors[i]
		v.PasswordHash = s.hash
		if err := s.users.Create(ctx, v); err != nil {
			return err
		}
		vendorIDs = append(vendorIDs, v.ID)
	}

	for i := 0; i < ds.products; i++ {
		var vendor *string
		// every third product is a vendor design
		if len(vendorIDs) > 0 && i%3 == 0 {
			id := vendorIDs[(i/3)%len(vendorIDs)]
			vendor = &id
		}
		p := s.gen.product(leaves[i%len(leaves)], vendor)
		if err := s.products.CreateProduct(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}

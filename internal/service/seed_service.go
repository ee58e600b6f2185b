package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/database"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/security"
)

// SeedUserEnsurer creates or repairs the seed account.
type SeedUserEnsurer func(ctx context.Context, in database.SeedUser) (*database.SeedUserReport, error)

type SeedReport struct {
	DryRun          bool                     `json:"dry_run"`
	User            *database.SeedUserReport `json:"user,omitempty"`
	DeletedProducts int64                    `json:"deleted_products"`
	CreatedProducts int                      `json:"created_products"`
	PlannedProducts int                      `json:"planned_products"`
}

type SeedService struct {
	cfg        *config.Config
	catalog    CatalogService
	ensureUser SeedUserEnsurer
	products   []CreateProductInput
	logger     *slog.Logger
}

func NewSeedService(cfg *config.Config, catalog CatalogService, ensureUser SeedUserEnsurer, logger *slog.Logger) *SeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedService{cfg: cfg, catalog: catalog, ensureUser: ensureUser, products: DemoCatalog(), logger: logger}
}

// Run resets the catalog to the demo data set. Products are created
// concurrently and owned by the seed user.
func (s *SeedService) Run(ctx context.Context, dryRun bool) (*SeedReport, error) {
	report := &SeedReport{DryRun: dryRun, PlannedProducts: len(s.products)}
	if dryRun {
		return report, nil
	}

	hash, err := security.HashPassword(s.cfg.SeedUserPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	userReport, err := s.ensureUser(ctx, database.SeedUser{
		Email:        s.cfg.SeedUserEmail,
		FullName:     "Seed Admin",
		PasswordHash: hash,
		Roles:        []string{domain.RoleAdmin, domain.RoleUser},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure seed user: %w", err)
	}
	report.User = userReport

	deleted, err := s.catalog.DeleteAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete products: %w", err)
	}
	report.DeletedProducts = deleted

	actor := Actor{ID: userReport.UserID, Email: s.cfg.SeedUserEmail, Roles: []string{domain.RoleAdmin, domain.RoleUser}}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, p := range s.products {
		g.Go(func() error {
			if _, err := s.catalog.Create(gctx, p, actor); err != nil {
				return fmt.Errorf("create %q: %w", p.Title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.CreatedProducts = len(s.products)
	s.logger.InfoContext(ctx, "seed executed", "deleted", deleted, "created", report.CreatedProducts)
	return report, nil
}

func DemoCatalog() []CreateProductInput {
	desc := func(s string) *string { return &s }
	return []CreateProductInput{
		{Title: "Men's Chill Crew Neck Sweatshirt", Description: desc("Introducing the Tesla Chill Collection."), Price: 75, Stock: 7, Sizes: []string{"XS", "S", "M", "L", "XL", "XXL"}, Gender: domain.GenderMen, Tags: []string{"sweatshirt"}, Images: []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"}},
		{Title: "Men's Quilted Shirt Jacket", Description: desc("The Men's Quilted Shirt Jacket features a uniquely fit, quilted design."), Price: 200, Stock: 5, Sizes: []string{"XS", "S", "M", "XL", "XXL"}, Gender: domain.GenderMen, Tags: []string{"jacket"}, Images: []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"}},
		{Title: "Men's Raven Lightweight Zip Up Bomber Jacket", Price: 130, Stock: 10, Sizes: []string{"S", "M", "L", "XL", "XXL"}, Gender: domain.GenderMen, Tags: []string{"shirt"}, Images: []string{"1740250-00-A_0_2000.jpg", "1740250-00-A_1.jpg"}},
		{Title: "Men's Turbine Long Sleeve Tee", Price: 45, Stock: 50, Sizes: []string{"XS", "S", "M", "L"}, Gender: domain.GenderMen, Tags: []string{"shirt"}, Images: []string{"1740280-00-A_0_2000.jpg"}},
		{Title: "Men's Cybertruck Owl Tee", Price: 35, Stock: 0, Sizes: []string{"M", "L", "XL", "XXL"}, Gender: domain.GenderMen, Tags: []string{"shirt"}, Images: []string{"7654393-00-A_2_2000.jpg"}},
		{Title: "Women's Cropped Puffer Jacket", Price: 225, Stock: 85, Sizes: []string{"XS", "S", "M"}, Gender: domain.GenderWomen, Tags: []string{"hoodie"}, Images: []string{"1740535-00-A_0_2000.jpg"}},
		{Title: "Women's Chill Half Zip Cropped Hoodie", Price: 130, Stock: 10, Sizes: []string{"XS", "S", "M", "XXL"}, Gender: domain.GenderWomen, Tags: []string{"hoodie"}, Images: []string{"1740226-00-A_0_2000.jpg"}},
		{Title: "Women's Raven Slouchy Crew Sweatshirt", Price: 110, Stock: 9, Sizes: []string{"XS", "S", "M", "L", "XL", "XXL"}, Gender: domain.GenderWomen, Tags: []string{"hoodie"}, Images: []string{"1740260-00-A_0_2000.jpg"}},
		{Title: "Kids Cybertruck Long Sleeve Tee", Price: 30, Stock: 10, Sizes: []string{"XS", "S", "M"}, Gender: domain.GenderKid, Tags: []string{"shirt"}, Images: []string{"1742693-00-A_0_2000.jpg"}},
		{Title: "Kids Scribble T Logo Tee", Price: 25, Stock: 0, Sizes: []string{"XS", "S", "M"}, Gender: domain.GenderKid, Tags: []string{"shirt"}, Images: []string{"8529312-00-A_0_2000.jpg"}},
		{Title: "Made on Earth by Humans Onesie", Price: 30, Stock: 16, Sizes: []string{"XS", "S"}, Gender: domain.GenderKid, Tags: []string{"shirt"}, Images: []string{"1473809-00-A_1_2000.jpg"}},
		{Title: "Tesla Logo Unisex Cap", Price: 35, Stock: 20, Sizes: []string{"M"}, Gender: domain.GenderUnisex, Tags: []string{"hats"}, Images: []string{"1657932-00-A_0_2000.jpg"}},
	}
}

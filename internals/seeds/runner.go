package seeds

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"schoolmanagement_backend/internals/configs"
	productService "schoolmanagement_backend/internals/features/finance/products/service"
)

// RunAllSeeds memastikan data minimum untuk billing ada (RUN_SEEDS=true).
func RunAllSeeds(ctx context.Context, cfg *configs.Config, products *productService.ProductService) error {
	//* Produk SPP bulanan
	name := strings.TrimSpace(cfg.TuitionProductName)
	if name == "" {
		name = configs.DefaultTuitionProductName
	}
	if cfg.TuitionDefaultPrice <= 0 {
		log.WithField("product", name).Warn("[SEED] TUITION_DEFAULT_PRICE kosong, produk SPP tidak di-seed")
		return nil
	}

	p, created, err := products.EnsureProduct(ctx, name, cfg.TuitionDefaultPrice)
	if err != nil {
		return err
	}
	if created {
		log.WithFields(log.Fields{"product_id": p.ProductID, "price": p.ProductListPrice}).Info("[SEED] produk SPP dibuat")
	} else {
		log.WithField("product_id", p.ProductID).Info("[SEED] produk SPP sudah ada")
	}
	return nil
}

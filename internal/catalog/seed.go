package catalog

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

type SeedStore interface {
	HasAny(ctx context.Context) (bool, error)
	InsertAll(ctx context.Context, products []domain.Product) error
}

// Seed fills an empty catalog with SampleProducts. If any product exists the
// step is skipped entirely. It reports whether products were inserted.
func Seed(ctx context.Context, store SeedStore, logger *slog.Logger) (bool, error) {
	exists, err := store.HasAny(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info("catalog already seeded")
		return false, nil
	}

	products := SampleProducts()
	if err := store.InsertAll(ctx, products); err != nil {
		return false, err
	}

	logger.Info("products seeded", "count", len(products))
	return true, nil
}

func SampleProducts() []domain.Product {
	return []domain.Product{
		sample(101, "men", "shirts", "Men Classic Shirt", 1199, "Cotton formal shirt, S–XXL", "https://images.unsplash.com/photo-1602810318383-e386cc2a3ccf?w=500&q=80"),
		sample(102, "men", "pants", "Men Chinos", 1499, "Slim-fit chino pants", "https://images.unsplash.com/photo-1624378439575-d8705ad7ae80?w=500&q=80"),
		sample(103, "men", "shirts", "Men Casual Shirt", 999, "Checks casual shirt", "https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=500&q=80"),
		sample(201, "women", "dress", "Floral Midi Dress", 2599, "Lightweight summer dress", "https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=500&q=80"),
		sample(202, "women", "saree", "Silk Saree", 4999, "Elegant silk saree with border", "https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=500&q=80"),
		sample(203, "women", "tops", "Lace Top", 899, "Delicate lace top", "https://images.unsplash.com/photo-1564257631407-4deb1f99d992?w=500&q=80"),
		sample(301, "kids", "tshirts", "Kids Graphic Tee", 399, "100% cotton tee", "https://images.unsplash.com/photo-1562157873-818bc0726f68?w=500&q=80"),
		sample(302, "kids", "shorts", "Kids Denim Shorts", 499, "Comfort denim shorts", "https://images.unsplash.com/photo-1519457431-44ccd64a579b?w=500&q=80"),
		sample(303, "kids", "tshirts", "Kids Polo", 449, "Smart polo shirt", "https://images.unsplash.com/photo-1622290291468-a28f7a7dc6a8?w=500&q=80"),
	}
}

func sample(id int64, section, sub, title string, price int64, desc, image string) domain.Product {
	return domain.Product{
		ID:          id,
		Section:     section,
		Subcategory: sub,
		Title:       title,
		Price:       decimal.NewFromInt(price),
		Description: desc,
		ImageURL:    &image,
	}
}

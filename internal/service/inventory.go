package service

import (
	"context"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository"
)

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

func (s *inventoryService) GetVariant(ctx context.Context, productID int64, variant domain.VariantKey) (*domain.Inventory, error) {
	return s.inventoryRepo.GetByVariant(ctx, productID, variant)
}

// Adjust applies a manual stock correction, e.g. after a physical count or
// when a repaired garment comes back into rotation.
func (s *inventoryService) Adjust(ctx context.Context, productID int64, variant domain.VariantKey, deltaAvailable, deltaCleaning, deltaRepair, deltaLost int) error {
	if err := s.inventoryRepo.Adjust(ctx, productID, variant, deltaAvailable, deltaCleaning, deltaRepair, deltaLost); err != nil {
		return err
	}
	logger.Info("Inventory adjusted", "product_id", productID, "size", variant.Size, "color", variant.Color,
		"d_available", deltaAvailable, "d_cleaning", deltaCleaning, "d_repair", deltaRepair, "d_lost", deltaLost)
	return nil
}

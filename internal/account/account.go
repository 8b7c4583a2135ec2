package account

import (
	"errors"

	"gorm.io/gorm"

	"freelancehub/internal/models"
)

var (
	// ErrCategoryInUse blocks category deletion while services reference it.
	ErrCategoryInUse = errors.New("cannot delete category because it is being used by services")
	// ErrSelfDelete keeps an admin from deleting their own account.
	ErrSelfDelete = errors.New("you cannot delete your own account")
)

// DeleteUser removes a user and everything that hangs off them in one
// transaction. Deletion order: per owned service its images, the
// reviews and messages of its orders, then the orders and the service
// itself; then the user's own orders as client (with their reviews and
// messages); then every message the user sent or received; finally the
// user row. All-or-nothing.
func DeleteUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var serviceIDs []uint
		if err := tx.Model(&models.Service{}).Where("freelancer_id = ?", userID).
			Pluck("id", &serviceIDs).Error; err != nil {
			return err
		}

		if len(serviceIDs) > 0 {
			if err := deleteServiceRows(tx, serviceIDs); err != nil {
				return err
			}
		}

		clientOrders := tx.Model(&models.Order{}).Select("id").Where("client_id = ?", userID)
		if err := tx.Where("order_id IN (?)", clientOrders).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id IN (?)", clientOrders).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			return err
		}

		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Delete(&models.Message{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}

// DeleteService removes one service and its dependents atomically.
func DeleteService(db *gorm.DB, serviceID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return deleteServiceRows(tx, []uint{serviceID})
	})
}

func deleteServiceRows(tx *gorm.DB, serviceIDs []uint) error {
	if err := tx.Where("service_id IN ?", serviceIDs).Delete(&models.ServiceImage{}).Error; err != nil {
		return err
	}

	orderIDs := tx.Model(&models.Order{}).Select("id").Where("service_id IN ?", serviceIDs)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("service_id IN ?", serviceIDs).Delete(&models.Order{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", serviceIDs).Delete(&models.Service{}).Error
}

// DeleteCategory removes a category, refusing while any service still
// references it.
func DeleteCategory(db *gorm.DB, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Service{}).Where("category_id = ?", categoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}
		return tx.Delete(&models.Category{}, categoryID).Error
	})
}

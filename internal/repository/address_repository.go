package repository

import (
	"errors"

	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	ListByAccount(accountID uint) ([]models.AccountAddress, error)
	GetByIDAndAccount(id, accountID uint) (*models.AccountAddress, error)
	CountByAccount(accountID uint) (int64, error)
	Create(address *models.AccountAddress) error
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	ClearDefault(accountID uint, exceptID uint) error
	PromoteFirst(accountID uint) error
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建收货地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// ListByAccount 获取账户全部地址（默认地址优先）
func (r *GormAddressRepository) ListByAccount(accountID uint) ([]models.AccountAddress, error) {
	var rows []models.AccountAddress
	if err := r.db.Where("account_id = ?", accountID).Order("is_default DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByIDAndAccount 获取属于账户的地址
func (r *GormAddressRepository) GetByIDAndAccount(id, accountID uint) (*models.AccountAddress, error) {
	var address models.AccountAddress
	if err := r.db.Where("id = ? AND account_id = ?", id, accountID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// CountByAccount 统计账户地址数量
func (r *GormAddressRepository) CountByAccount(accountID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.AccountAddress{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.AccountAddress) error {
	return r.db.Create(address).Error
}

// Update 更新地址字段
func (r *GormAddressRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.AccountAddress{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除地址
func (r *GormAddressRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.AccountAddress{}).Error
}

// ClearDefault 取消账户下除 exceptID 外的默认标记
func (r *GormAddressRepository) ClearDefault(accountID uint, exceptID uint) error {
	query := r.db.Model(&models.AccountAddress{}).Where("account_id = ? AND is_default = ?", accountID, true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}

// PromoteFirst 账户没有默认地址时，将最早的地址设为默认
func (r *GormAddressRepository) PromoteFirst(accountID uint) error {
	var count int64
	if err := r.db.Model(&models.AccountAddress{}).
		Where("account_id = ? AND is_default = ?", accountID, true).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	var first models.AccountAddress
	if err := r.db.Where("account_id = ?", accountID).Order("id ASC").First(&first).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.Model(&models.AccountAddress{}).Where("id = ?", first.ID).Update("is_default", true).Error
}

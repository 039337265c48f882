package service

import (
	"strings"

	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址服务（客户自助与后台共用，按账户隔离）
type AddressService struct {
	accountRepo repository.AccountRepository
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(accountRepo repository.AccountRepository, addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{accountRepo: accountRepo, addressRepo: addressRepo}
}

// AddressInput 地址输入
type AddressInput struct {
	Name            string
	PhoneNumber     string
	ProvinceID      string
	DistrictID      string
	WardID          string
	SpecificAddress string
	Type            bool
	IsDefault       bool
}

func (in AddressInput) validate() (*models.AccountAddress, error) {
	issues := &ValidationError{}
	address := &models.AccountAddress{
		Name:            requireText(issues, "name", in.Name),
		PhoneNumber:     checkPhone(issues, "phoneNumber", in.PhoneNumber, true),
		ProvinceID:      requireText(issues, "provinceId", in.ProvinceID),
		DistrictID:      requireText(issues, "districtId", in.DistrictID),
		WardID:          requireText(issues, "wardId", in.WardID),
		SpecificAddress: requireText(issues, "specificAddress", in.SpecificAddress),
		Type:            in.Type,
		IsDefault:       in.IsDefault,
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	return address, nil
}

// List 账户地址列表（默认地址在前）
func (s *AddressService) List(accountID uint) ([]models.AccountAddress, error) {
	if err := s.ensureAccount(accountID); err != nil {
		return nil, err
	}
	return s.addressRepo.ListByAccount(accountID)
}

// Get 获取账户下的地址
func (s *AddressService) Get(accountID, addressID uint) (*models.AccountAddress, error) {
	address, err := s.addressRepo.GetByIDAndAccount(addressID, accountID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 新增地址；首个地址自动成为默认
func (s *AddressService) Create(accountID uint, input AddressInput) (*models.AccountAddress, error) {
	address, err := input.validate()
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccount(accountID); err != nil {
		return nil, err
	}
	address.AccountID = accountID

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		count, err := repo.CountByAccount(accountID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}
		if err := repo.Create(address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.ClearDefault(accountID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 修改地址
func (s *AddressService) Update(accountID, addressID uint, input AddressInput) (*models.AccountAddress, error) {
	address, err := input.validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(accountID, addressID); err != nil {
		return nil, err
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Update(addressID, map[string]interface{}{
			"name":             address.Name,
			"phone_number":     address.PhoneNumber,
			"province_id":      address.ProvinceID,
			"district_id":      address.DistrictID,
			"ward_id":          address.WardID,
			"specific_address": strings.TrimSpace(address.SpecificAddress),
			"type":             address.Type,
		}); err != nil {
			return err
		}
		if input.IsDefault {
			if err := repo.Update(addressID, map[string]interface{}{"is_default": true}); err != nil {
				return err
			}
			return repo.ClearDefault(accountID, addressID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(accountID, addressID)
}

// Delete 删除地址；删除默认地址后由最早的地址接替
func (s *AddressService) Delete(accountID, addressID uint) error {
	if _, err := s.Get(accountID, addressID); err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Delete(addressID); err != nil {
			return err
		}
		return repo.PromoteFirst(accountID)
	})
}

// SetDefault 设为默认地址，同一事务内清除其它默认标记
func (s *AddressService) SetDefault(accountID, addressID uint) (*models.AccountAddress, error) {
	if _, err := s.Get(accountID, addressID); err != nil {
		return nil, err
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.ClearDefault(accountID, addressID); err != nil {
			return err
		}
		return repo.Update(addressID, map[string]interface{}{"is_default": true})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(accountID, addressID)
}

func (s *AddressService) ensureAccount(accountID uint) error {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	return nil
}

package provider

import (
	"github.com/shopdesk/internal/authz"
	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AccountRepo       repository.AccountRepository
	AddressRepo       repository.AddressRepository
	LoginLogRepo      repository.AccountLoginLogRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository
	BrandRepo         repository.CrudRepository[models.Brand]
	CategoryRepo      repository.CrudRepository[models.Category]
	MaterialRepo      repository.CrudRepository[models.Material]
	ColorRepo         repository.CrudRepository[models.Color]
	SizeRepo          repository.CrudRepository[models.Size]
	ProductRepo       repository.ProductRepository
	VariantRepo       repository.VariantRepository
	OrderRepo         repository.OrderRepository
	PaymentRepo       repository.PaymentRepository
	ReturnRepo        repository.ReturnRepository
	VoucherRepo       repository.VoucherRepository
	PromotionRepo     repository.PromotionRepository
	NotificationRepo  repository.NotificationRepository
	StatisticRepo     repository.StatisticRepository

	// Services
	AuthzService        *authz.Service
	AuthzAuditService   *service.AuthzAuditService
	CaptchaService      *service.CaptchaService
	LoginLogService     *service.LoginLogService
	AuthService         *service.AuthService
	AccountService      *service.AccountService
	AddressService      *service.AddressService
	BrandService        *service.AttributeService[models.Brand]
	CategoryService     *service.AttributeService[models.Category]
	MaterialService     *service.AttributeService[models.Material]
	ColorService        *service.AttributeService[models.Color]
	SizeService         *service.AttributeService[models.Size]
	ProductService      *service.ProductService
	NotificationService *service.NotificationService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	ReturnService       *service.ReturnService
	VoucherService      *service.VoucherService
	PromotionService    *service.PromotionService
	StatisticService    *service.StatisticService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 队列关闭时返回禁用态客户端，服务层据此同步执行
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AccountRepo = repository.NewAccountRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.LoginLogRepo = repository.NewAccountLoginLogRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.BrandRepo = repository.NewCrudRepository[models.Brand](db, "name")
	c.CategoryRepo = repository.NewCrudRepository[models.Category](db, "name")
	c.MaterialRepo = repository.NewCrudRepository[models.Material](db, "name")
	c.ColorRepo = repository.NewCrudRepository[models.Color](db, "name")
	c.SizeRepo = repository.NewCrudRepository[models.Size](db, "")
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.StatisticRepo = repository.NewStatisticRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.LoginLogService = service.NewLoginLogService(c.LoginLogRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AccountRepo, c.LoginLogService, c.CaptchaService)
	c.AccountService = service.NewAccountService(c.Config, c.AccountRepo)
	c.AddressService = service.NewAddressService(c.AccountRepo, c.AddressRepo)

	c.BrandService = service.NewBrandService(c.BrandRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.MaterialService = service.NewMaterialService(c.MaterialRepo)
	c.ColorService = service.NewColorService(c.ColorRepo)
	c.SizeService = service.NewSizeService(c.SizeRepo)
	c.ProductService = service.NewProductService(service.ProductServiceDeps{
		ProductRepo:   c.ProductRepo,
		VariantRepo:   c.VariantRepo,
		PromotionRepo: c.PromotionRepo,
		Brands:        c.BrandRepo,
		Categories:    c.CategoryRepo,
		Materials:     c.MaterialRepo,
		Colors:        c.ColorRepo,
		Sizes:         c.SizeRepo,
	})

	c.NotificationService = service.NewNotificationService(c.Config, c.NotificationRepo, c.AccountRepo, c.OrderRepo, c.QueueClient)
	c.VoucherService = service.NewVoucherService(c.VoucherRepo, c.NotificationService)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo, c.ProductRepo, c.NotificationService)
	c.OrderService = service.NewOrderService(service.OrderServiceDeps{
		OrderRepo:     c.OrderRepo,
		VariantRepo:   c.VariantRepo,
		VoucherRepo:   c.VoucherRepo,
		PaymentRepo:   c.PaymentRepo,
		AccountRepo:   c.AccountRepo,
		AddressRepo:   c.AddressRepo,
		Notifications: c.NotificationService,
	})
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo)
	c.ReturnService = service.NewReturnService(c.Config, c.ReturnRepo, c.OrderRepo, c.VariantRepo)
	c.StatisticService = service.NewStatisticService(c.Config, c.StatisticRepo, c.QueueClient)
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

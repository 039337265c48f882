package i18n

// messagesVI 越南语文案（默认语言）
var messagesVI = map[string]string{
	// 通用
	"message.success":              "Thành công",
	"message.created":              "Tạo mới thành công",
	"message.updated":              "Cập nhật thành công",
	"message.deleted":              "Xóa thành công",
	"message.login_success":        "Đăng nhập thành công",
	"message.register_success":     "Đăng ký thành công",
	"message.logout_success":       "Đăng xuất thành công",
	"message.password_changed":     "Đổi mật khẩu thành công",
	"message.order_created":        "Tạo đơn hàng thành công",
	"message.order_canceled":       "Hủy đơn hàng thành công",
	"message.order_status_updated": "Cập nhật trạng thái đơn hàng thành công",
	"message.payment_created":      "Ghi nhận thanh toán thành công",
	"message.return_created":       "Tạo yêu cầu trả hàng thành công",
	"message.voucher_valid":        "Mã giảm giá hợp lệ",
	"message.notifications_sent":   "Đã gửi thông báo",
	"message.marked_read":          "Đã đánh dấu đã đọc",
	"message.statistics_generated": "Đã tạo thống kê ngày",
	"message.statistics_queued":    "Đã đưa việc tạo thống kê ngày vào hàng đợi",
	"message.health_ok":            "Hệ thống hoạt động bình thường",

	// 通用错误
	"error.bad_request":        "Yêu cầu không hợp lệ",
	"error.unauthorized":       "Chưa đăng nhập hoặc phiên đăng nhập đã hết hạn",
	"error.forbidden":          "Bạn không có quyền thực hiện thao tác này",
	"error.not_found":          "Không tìm thấy dữ liệu",
	"error.route_not_found":    "Không tìm thấy đường dẫn",
	"error.internal":           "Lỗi hệ thống, vui lòng thử lại sau",
	"error.too_many_requests":  "Thao tác quá nhiều lần, vui lòng thử lại sau",
	"error.validation_failed":  "Dữ liệu không hợp lệ",
	"error.id_invalid":         "ID không hợp lệ",
	"error.invalid_date_range": "Khoảng thời gian không hợp lệ",

	// 认证
	"error.invalid_credentials":     "Mật khẩu không chính xác",
	"error.invalid_password":        "Mật khẩu hiện tại không chính xác",
	"error.weak_password":           "Mật khẩu không đủ mạnh",
	"error.invalid_token":           "Token không hợp lệ",
	"error.token_revoked":           "Phiên đăng nhập đã bị thu hồi, vui lòng đăng nhập lại",
	"error.captcha_required":        "Vui lòng nhập mã xác thực",
	"error.captcha_invalid":         "Mã xác thực không chính xác",
	"error.captcha_generate_failed": "Không thể tạo mã xác thực",
	"error.login_rate_limited":      "Đăng nhập sai quá nhiều lần, vui lòng thử lại sau",

	// 账户
	"error.account_not_found":    "Không tìm thấy tài khoản",
	"error.account_disabled":     "Tài khoản đã bị vô hiệu hóa",
	"error.email_exists":         "Email đã được sử dụng",
	"error.phone_exists":         "Số điện thoại đã được sử dụng",
	"error.account_role_invalid": "Vai trò tài khoản không hợp lệ",
	"error.account_in_use":       "Tài khoản đã phát sinh đơn hàng, không thể xóa",
	"error.address_not_found":    "Không tìm thấy địa chỉ",
	"error.customer_not_found":   "Không tìm thấy khách hàng",

	// 商品属性
	"error.attribute_not_found": "Không tìm thấy thuộc tính",
	"error.attribute_duplicate": "Thuộc tính đã tồn tại",
	"error.attribute_in_use":    "Thuộc tính đang được sản phẩm sử dụng",
	"error.brand_not_found":     "Không tìm thấy thương hiệu",
	"error.category_not_found":  "Không tìm thấy danh mục",
	"error.material_not_found":  "Không tìm thấy chất liệu",
	"error.color_not_found":     "Không tìm thấy màu sắc",
	"error.size_not_found":      "Không tìm thấy kích cỡ",

	// 商品
	"error.product_not_found":      "Không tìm thấy sản phẩm",
	"error.variant_not_found":      "Không tìm thấy biến thể sản phẩm",
	"error.variant_not_in_product": "Biến thể không thuộc sản phẩm",
	"error.duplicate_variant":      "Trùng màu sắc và kích cỡ giữa các biến thể",
	"error.insufficient_stock":     "Sản phẩm không đủ tồn kho",

	// 订单
	"error.order_not_found":           "Không tìm thấy đơn hàng",
	"error.order_items_required":      "Đơn hàng phải có ít nhất một sản phẩm",
	"error.order_total_mismatch":      "Tổng tiền đơn hàng không khớp",
	"error.order_status_invalid":      "Không thể chuyển trạng thái đơn hàng",
	"error.order_status_conflict":     "Trạng thái đơn hàng vừa được thay đổi, vui lòng tải lại",
	"error.order_already_canceled":    "Đơn hàng đã bị hủy",
	"error.order_cannot_cancel":       "Không thể hủy đơn hàng ở trạng thái hiện tại",
	"error.shipping_address_required": "Vui lòng cung cấp địa chỉ giao hàng",

	// 支付
	"error.payment_not_found":           "Không tìm thấy thanh toán",
	"error.payment_amount_invalid":      "Số tiền thanh toán không hợp lệ",
	"error.payment_method_invalid":      "Phương thức thanh toán không hợp lệ",
	"error.payment_order_closed":        "Đơn hàng không còn nhận thanh toán",
	"error.payment_order_not_delivered": "Đơn hàng chưa được giao",
	"error.payment_status_invalid":      "Không thể chuyển trạng thái thanh toán",
	"error.payment_delete_completed":    "Không thể xóa thanh toán đã hoàn tất",
	"error.payment_nothing_due":         "Đơn hàng đã được thanh toán đủ",

	// 退货
	"error.return_not_found":           "Không tìm thấy phiếu trả hàng",
	"error.return_order_not_completed": "Chỉ đơn hàng đã hoàn thành mới được trả hàng",
	"error.return_window_expired":      "Đã quá thời hạn trả hàng",
	"error.return_quantity_exceeded":   "Số lượng trả vượt quá số lượng đã mua",
	"error.return_item_invalid":        "Sản phẩm trả không thuộc đơn hàng",
	"error.return_status_invalid":      "Không thể chuyển trạng thái phiếu trả hàng",
	"error.return_not_editable":        "Chỉ phiếu trả hàng đang chờ mới được chỉnh sửa",
	"error.return_delete_completed":    "Không thể xóa phiếu trả hàng đã hoàn tất",

	// 优惠券
	"error.voucher_not_found":       "Không tìm thấy mã giảm giá",
	"error.voucher_inactive":        "Mã giảm giá đã ngừng hoạt động",
	"error.voucher_not_started":     "Mã giảm giá chưa đến thời gian sử dụng",
	"error.voucher_expired":         "Mã giảm giá đã hết hạn",
	"error.voucher_exhausted":       "Mã giảm giá đã hết lượt sử dụng",
	"error.voucher_min_order_value": "Đơn hàng chưa đạt giá trị tối thiểu",
	"error.voucher_code_exists":     "Mã giảm giá đã tồn tại",
	"error.voucher_in_use":          "Mã giảm giá đã được sử dụng, không thể xóa",

	// 促销与通知
	"error.promotion_not_found":          "Không tìm thấy khuyến mãi",
	"error.promotion_products_not_found": "Một số sản phẩm không tồn tại",
	"error.notification_not_found":       "Không tìm thấy thông báo",
	"error.no_customers":                 "Không có khách hàng nào đang hoạt động",

	// 统计与权限
	"error.statistic_type_invalid": "Loại thống kê không hợp lệ",
	"error.authz_role_invalid":     "Vai trò phân quyền không hợp lệ",
	"error.authz_policy_not_found": "Không tìm thấy chính sách phân quyền",

	// 字段校验：第一个参数为字段名，第二个为规则参数
	"validation.required":          "%s là bắt buộc",
	"validation.email":             "%s không đúng định dạng email",
	"validation.phone":             "%s không đúng định dạng số điện thoại",
	"validation.numeric":           "%s phải là số",
	"validation.oneof":             "%s phải là một trong: %s",
	"validation.gt":                "%s phải lớn hơn %s",
	"validation.gte":               "%s phải lớn hơn hoặc bằng %s",
	"validation.lte":               "%s phải nhỏ hơn hoặc bằng %s",
	"validation.min":               "%s phải có tối thiểu %s",
	"validation.max":               "%s chỉ được tối đa %s",
	"validation.between":           "%s phải nằm trong khoảng %s",
	"validation.after_start":       "%s phải sau ngày bắt đầu",
	"validation.exists":            "%s không tồn tại",
	"validation.duplicate_variant": "%s trùng màu sắc và kích cỡ",
	"validation.password_upper":    "%s phải chứa chữ in hoa",
	"validation.password_lower":    "%s phải chứa chữ thường",
	"validation.password_number":   "%s phải chứa chữ số",
	"validation.password_special":  "%s phải chứa ký tự đặc biệt",
	"validation.derived":           "%s được tính tự động từ các khoản thanh toán",
	"validation.invalid":           "%s không hợp lệ",

	// 订单状态
	"order_status.CHO_XAC_NHAN":    "Chờ xác nhận",
	"order_status.CHO_GIAO_HANG":   "Chờ giao hàng",
	"order_status.DANG_VAN_CHUYEN": "Đang vận chuyển",
	"order_status.DA_GIAO_HANG":    "Đã giao hàng",
	"order_status.HOAN_THANH":      "Hoàn thành",
	"order_status.DA_HUY":          "Đã hủy",

	// 通知
	"notification.order_status_title":   "Cập nhật đơn hàng %s",
	"notification.order_status_message": "Đơn hàng %s của bạn đã chuyển sang trạng thái: %s",
}

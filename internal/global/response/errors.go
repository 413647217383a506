package response

// 业务错误（< 500）
var (
	ErrInvalidRequest  = newError(400, "请求参数错误")
	ErrUnauthorized    = newError(401, "用户未认证")
	ErrTokenInvalid    = newError(402, "登录凭证无效")
	ErrForbidden       = newError(403, "无权限")
	ErrNotFound        = newError(404, "资源不存在")
	ErrInvalidPassword = newError(405, "密码错误")
	ErrConflict        = newError(409, "资源冲突")
	ErrInvalidState    = newError(422, "当前状态不允许该操作")
	ErrCapacityFull    = newError(423, "名额已满")
)

// 基础设施错误（>= 500），会上报 Sentry
var (
	ErrDatabase       = newError(500, "数据库错误")
	ErrServerInternal = newError(501, "服务器内部错误")
	ErrStorage        = newError(502, "对象存储错误")
)

package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindError 400 参数校验失败
// 绑定错误为 validator 字段错误时，逐字段的原因放入 details
func BindError(c *gin.Context, code int, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, code, "参数校验失败", bindDetails(err))
}

func bindDetails(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// JSON 语法错误、类型不匹配等非字段级错误
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+": "+fieldReason(fe))
	}
	return strings.Join(parts, "; ")
}

// fieldReason 将校验标签翻译为可读原因，未覆盖的标签原样给出
func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填"
	case "email":
		return "邮箱格式不正确"
	case "uuid":
		return "必须是合法的 UUID"
	case "oneof":
		return "取值必须是 " + fe.Param() + " 之一"
	case "min":
		return "不能小于 " + fe.Param()
	case "max":
		return "不能大于 " + fe.Param()
	case "gte":
		return "不能小于 " + fe.Param()
	case "lte":
		return "不能大于 " + fe.Param()
	case "datetime":
		return "日期格式必须为 " + fe.Param()
	default:
		return "不满足 " + fe.Tag() + " 约束"
	}
}

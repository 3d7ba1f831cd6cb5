package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"venuedesk/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

const mysqlDuplicateEntry = 1062

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body)
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "invalid credentials"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidPassword) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.invalid_password", Message: "invalid password"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAccountDeleted) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "account.deleted", Message: "account deleted"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAccountInactive) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "account.inactive", Message: "inactive account"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrRoleInactive) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "role.inactive", Message: "inactive role"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInactiveRoleAssignment) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "role.inactive_assignment", Message: "cannot assign inactive role"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrEmptyRoleName) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "role.empty_name", Message: "role name must be non-empty"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrEmptyPermissions) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "role.empty_permissions", Message: "permissions must be non-empty"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTooManyRequests) {
		c.JSON(http.StatusTooManyRequests, &common.ErrorBody{Code: "common.too_many_requests", Message: "too many requests"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, gorm.ErrRecordNotFound) || errors.Is(genericErr, ErrNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		c.Abort()
		return
	}

	// the compound unique index is the correctness mechanism behind
	// per-vendor uniqueness, the pre-checks in the stores are only an
	// optimization. the loser of a create race lands here.
	var mysqlErr *mysql.MySQLError
	if errors.As(genericErr, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "common.conflict", Message: "record already exists"})
		c.Abort()
		return
	}

	// unexpected errors keep their detail in the server log only
	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: "internal server error"})
	c.Abort()
}

/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIdKey    = "request_id"
	requestIdHeader = "X-Request-Id"
)

func newRequestId() string {
	return "req_" + uuid.NewString()
}

// RequestId tags every request so error envelopes and access logs agree.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := newRequestId()
		c.Set(requestIdKey, id)
		c.Header(requestIdHeader, id)
		c.Next()
	}
}

func requestId(c *gin.Context) string {
	if id := c.GetString(requestIdKey); id != "" {
		return id
	}
	return newRequestId()
}

// AccessLog writes one zap entry per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIdKey)),
		}
		if identity, ok := auth.IdentityFrom(c); ok {
			fields = append(fields, zap.String("caller", identity.Email))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			zap.L().Error("Request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			zap.L().Warn("Request rejected", fields...)
		default:
			zap.L().Info("Request served", fields...)
		}
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	RequestId string    `json:"request_id"`
	Error     errorBody `json:"error"`
}

func statusFor(apiErr *api.Error) int {
	switch apiErr.Kind {
	case api.KindUnauthenticated:
		return http.StatusUnauthorized
	case api.KindForbidden:
		return http.StatusForbidden
	case api.KindInvalidInput:
		return http.StatusBadRequest
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindConflict:
		return http.StatusConflict
	default:
		if apiErr.Retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
}

// writeError renders err in the uniform envelope. Errors outside the
// taxonomy are logged and reported as internal.
func writeError(c *gin.Context, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = api.Internal("Unclassified handler error", err, zap.String("path", c.FullPath()))
	}
	c.AbortWithStatusJSON(statusFor(apiErr), errorEnvelope{
		RequestId: requestId(c),
		Error: errorBody{
			Code:    string(apiErr.Kind),
			Reason:  apiErr.Reason,
			Message: apiErr.Message,
		},
	})
}

func unauthenticated(c *gin.Context) {
	writeError(c, api.Unauthenticated("authentication required"))
}

// bindJSON decodes the request body or writes an invalid_input error.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, api.InvalidInput("invalid request body"))
		return false
	}
	return true
}

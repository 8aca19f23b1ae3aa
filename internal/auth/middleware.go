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

package auth

import (
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Authenticate attaches the verified identity to the request context. A
// missing, malformed, expired or forged credential all produce the same
// failure, written by onFail.
func Authenticate(tokens *Tokens, onFail func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := ParseBearer(c.GetHeader("Authorization"))
		if !ok {
			onFail(c)
			return
		}
		identity, err := tokens.Verify(raw)
		if err != nil {
			zap.L().Debug("Credential rejected", zap.String("path", c.FullPath()))
			onFail(c)
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(models.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

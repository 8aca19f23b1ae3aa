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

package api

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Kind classifies a failure for the transport layer.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Business-rule reasons attached to Conflict and Forbidden errors.
const (
	ReasonAlreadySold         = "already_sold"
	ReasonDuplicateOffer      = "duplicate_offer"
	ReasonDuplicateSettlement = "duplicate_settlement"
	ReasonOfferRejected       = "offer_rejected"
	ReasonInvalidTransition   = "invalid_transition"
	ReasonFraudulentAgent     = "fraudulent_agent"
	ReasonPropertySold        = "property_sold"
)

type Error struct {
	Kind      Kind
	Reason    string
	Message   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

// Internal logs err with its context and hides it from the caller. A store
// deadline is reported as retryable.
func Internal(message string, err error, fields ...zap.Field) *Error {
	retryable := errors.Is(err, context.DeadlineExceeded)
	zap.L().Error(message, append(fields, zap.Error(err), zap.Bool("retryable", retryable))...)
	public := "internal error"
	if retryable {
		public = "datastore timed out, retry the request"
	}
	return &Error{Kind: KindInternal, Message: public, Retryable: retryable, Err: err}
}

// KindOf returns the taxonomy kind of err; unclassified errors are Internal.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// ReasonOf returns the business-rule reason attached to err, if any.
func ReasonOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// TokenParser validates a token and asserts its type.
type TokenParser interface {
	ParseAs(raw string, want sec.TokenType) (*sec.AuthClaims, error)
}

// RefreshData is what a valid refresh token identifies.
type RefreshData struct {
	Username string
	TokenID  string
}

// RefreshProcessor turns a raw refresh token into [RefreshData]. It has no side effects.
type RefreshProcessor struct {
	parser TokenParser
}

// NewRefreshProcessor creates the processor.
func NewRefreshProcessor(parser TokenParser) *RefreshProcessor {
	return &RefreshProcessor{parser: parser}
}

// Process validates signature and expiry, requires type REFRESH and extracts
// the subject and jti. Every failure, wrong type included, is [ErrInvalidToken].
func (processor *RefreshProcessor) Process(raw string) (*RefreshData, error) {
	claims, err := processor.parser.ParseAs(raw, sec.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}

	data := &RefreshData{Username: claims.Username(), TokenID: claims.TokenID()}
	if data.Username == "" || !ids.IsUUID(data.TokenID) {
		return nil, ErrInvalidToken
	}

	return data, nil
}

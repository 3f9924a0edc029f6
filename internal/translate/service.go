// Package translate renders articles in Hindi or English on demand and
// memoizes the results.
package translate

import (
	"context"
	"errors"
	"strings"

	"github.com/sachpatra/internal/locale"
	"go.uber.org/zap"
)

// Source tells how a Result was produced.
type Source string

const (
	SourcePassthrough Source = "passthrough"
	SourceProvider    Source = "provider"
	SourceDictionary  Source = "dictionary"
	SourceUnchanged   Source = "unchanged"
)

// ErrNoProvider marks results produced without a remote provider configured.
var ErrNoProvider = errors.New("no translation provider configured")

// Result is the outcome of translating one piece of text. Text is always
// usable; Err records a provider failure that the fallback absorbed.
type Result struct {
	Text   string
	Source Source
	Err    error
}

// Failed reports whether the text is untranslated because the provider
// failed and the dictionary changed nothing.
func (r Result) Failed() bool {
	return r.Source == SourceUnchanged && r.Err != nil
}

// Service is the text translation primitive. It never returns an error.
type Service struct {
	provider Provider
	dict     *Dictionary
	logger   *zap.Logger
}

// NewService wires a provider (nil means dictionary only).
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, dict: NewDictionary(), logger: logger}
}

// Text translates text from source to target.
func (s *Service) Text(ctx context.Context, text, target, source string) Result {
	target = locale.NormalizeLanguage(target)
	source = locale.NormalizeLanguage(source)
	if target == "" || target == source || strings.TrimSpace(text) == "" {
		return Result{Text: text, Source: SourcePassthrough}
	}
	if source == "" {
		source = locale.Opposite(target)
	}
	if InLanguage(text, target) {
		return Result{Text: text, Source: SourcePassthrough}
	}

	var providerErr error
	if s.provider != nil {
		translated, err := s.provider.Translate(ctx, text, source, target)
		if err == nil && strings.TrimSpace(translated) != "" {
			return Result{Text: translated, Source: SourceProvider}
		}
		if err == nil {
			err = ErrEmptyTranslation
		}
		providerErr = err
		s.logger.Warn("translation provider failed, using dictionary",
			zap.String("source", source), zap.String("target", target), zap.Error(err))
	} else {
		providerErr = ErrNoProvider
	}

	if out := s.dict.Translate(text, source, target); out != text {
		return Result{Text: out, Source: SourceDictionary, Err: providerErr}
	}
	return Result{Text: text, Source: SourceUnchanged, Err: providerErr}
}

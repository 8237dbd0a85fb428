package llm

import "github.com/jobscout/scouter/internal/apperr"

// Typed provider errors per spec.md §6's LLM provider interface. Transient
// kinds map to apperr.KindProviderTransient (caller may retry); fatal
// kinds map to apperr.KindProviderFatal (no retry).

func ErrRateLimit(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderTransient, "RATE_LIMIT", provider+" rate limited", cause)
}

func ErrTransient(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderTransient, "TRANSIENT", provider+" transient failure", cause)
}

func ErrAuth(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderFatal, "AUTH", provider+" authentication failed", cause)
}

func ErrContextLength(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderFatal, "CONTEXT_LENGTH", provider+" context length exceeded", cause)
}

func ErrContentFilter(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderFatal, "CONTENT_FILTER", provider+" content filtered", cause)
}

func ErrProvider(provider string, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindProviderFatal, "PROVIDER_ERROR", provider+" request failed", cause)
}

package locset

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/pitabwire/locset/locale"
)

type contextKey string

func (c contextKey) String() string {
	return "locset/" + string(c)
}

const ctxKeyRequestLocale = contextKey("requestLocaleKey")

// LocaleToContext stores the resolved request locale on the supplied context.
func LocaleToContext(ctx context.Context, loc string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestLocale, locale.Canonical(loc))
}

// LocaleFromContext extracts the resolved request locale from the supplied
// context if any exists.
func LocaleFromContext(ctx context.Context) string {
	loc, ok := ctx.Value(ctxKeyRequestLocale).(string)
	if !ok {
		return ""
	}

	return loc
}

// LanguagesFromHTTPRequest collects the language preference chain of an http
// request, combining an explicit lang parameter with the Accept-Language header.
func LanguagesFromHTTPRequest(req *http.Request) []string {
	var languages []string

	if lang := req.FormValue("lang"); lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, LanguagesFromHTTPHeader(req.Header)...)
}

// LanguagesFromHTTPHeader splits the Accept-Language header into a preference chain.
func LanguagesFromHTTPHeader(header http.Header) []string {
	acceptLanguageHeader := header.Get("Accept-Language")
	if acceptLanguageHeader == "" {
		return nil
	}

	parts := strings.Split(acceptLanguageHeader, ",")

	languages := make([]string, 0, len(parts))
	for _, part := range parts {
		lang := strings.TrimSpace(part)
		// Strip quality weights like "fr;q=0.8".
		if idx := strings.IndexByte(lang, ';'); idx >= 0 {
			lang = lang[:idx]
		}
		if lang != "" {
			languages = append(languages, lang)
		}
	}

	return languages
}

// LanguagesFromGrpcContext extracts the accept-language metadata of an
// incoming grpc request.
func LanguagesFromGrpcContext(ctx context.Context) []string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	header := md.Get("accept-language")
	if len(header) == 0 {
		return nil
	}

	return strings.Split(header[0], ",")
}

// LanguageMiddleware resolves every request's language preference chain
// against the directory and stores the winning locale on the request context
// for downstream consumers such as DeduplicateRecords.
func LanguageMiddleware(directory locale.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			resolved := directory.Match(LanguagesFromHTTPRequest(req)...)
			next.ServeHTTP(w, req.WithContext(LocaleToContext(req.Context(), resolved)))
		})
	}
}

package locset

import "errors"

// ErrUnsupportedLocale is returned when a localization is requested for a
// locale outside the directory's supported set. It is fatal to the single
// call that raised it; nothing is persisted.
var ErrUnsupportedLocale = errors.New("unsupported locale")

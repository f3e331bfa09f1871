package locale_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/locset/locale"
)

type DirectoryTestSuite struct {
	suite.Suite
	directory locale.Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}

func (s *DirectoryTestSuite) SetupTest() {
	directory, err := locale.NewDirectory("en", "fr", "sw", "fr-CA")
	s.Require().NoError(err)
	s.directory = directory
}

func (s *DirectoryTestSuite) TestDefaultAlwaysSupported() {
	directory, err := locale.NewDirectory("de", "fr")
	s.Require().NoError(err)

	s.Equal("de", directory.DefaultLocale())
	s.True(directory.IsSupported("de"))
	s.Equal([]string{"de", "fr"}, directory.SupportedLocales())
}

func (s *DirectoryTestSuite) TestIsSupportedIsCaseInsensitive() {
	testCases := []struct {
		name   string
		locale string
		want   bool
	}{
		{name: "exact", locale: "fr", want: true},
		{name: "upper cased", locale: "FR", want: true},
		{name: "region tag mixed case", locale: "fr-ca", want: true},
		{name: "unsupported", locale: "pt", want: false},
		{name: "empty", locale: "", want: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.directory.IsSupported(tc.locale))
		})
	}
}

func (s *DirectoryTestSuite) TestMatch() {
	testCases := []struct {
		name      string
		preferred []string
		want      string
	}{
		{name: "exact preference", preferred: []string{"fr"}, want: "fr"},
		{name: "first supported of chain", preferred: []string{"pt", "sw"}, want: "sw"},
		{name: "nothing supported falls back", preferred: []string{"zu"}, want: "en"},
		{name: "empty chain falls back", preferred: nil, want: "en"},
		{name: "garbage entries are skipped", preferred: []string{"!!", "fr"}, want: "fr"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.directory.Match(tc.preferred...))
		})
	}
}

func TestCanonical(t *testing.T) {
	testCases := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "already canonical", locale: "en", want: "en"},
		{name: "upper cased", locale: "EN", want: "en"},
		{name: "region tag", locale: "fr-CA", want: "fr-ca"},
		{name: "surrounding space", locale: "  de ", want: "de"},
		{name: "empty", locale: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, locale.Canonical(tc.locale))
		})
	}
}

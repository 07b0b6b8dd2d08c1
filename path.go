package eatery

import (
	"strings"
)

func extractSomePartsFromUrl(url string, numberOfPart int, separator string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "/") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	s := strings.Split(url, "/")
	l := numberOfPart + 1
	if len(s) < l {
		l = len(s)
	}
	return strings.Join(s[1:l], separator)
}

// ExtractLoggablePartsFromUrl keeps the first four path segments so ids
// deeper in the path stay out of log fields and span names.
func ExtractLoggablePartsFromUrl(url string) string {
	return extractSomePartsFromUrl(url, 4, "/")
}

// Url2Subject maps /api/service/restaurants/1 to api.service.restaurants.
func Url2Subject(url string) string {
	return extractSomePartsFromUrl(url, 3, ".")
}

// SubjectToUrl maps api.service.restaurants and health to
// /api/service/restaurants/health.
func SubjectToUrl(subject, topic string) string {
	parts := strings.Split(subject, ".")
	parts = append(parts, topic)
	return "/" + strings.Join(parts, "/")
}

package cache

import "strings"

const (
	GlobalKeyPrefix = "learnflow"

	QuizServiceName   = "quiz"
	SessionObjectType = "session"
)

// GenerateCacheKey builds "learnflow:<service>:<type>:<id>". Extra params are
// joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionKey is where a quiz session snapshot is stored.
func SessionKey(sessionID string) string {
	return GenerateCacheKey(QuizServiceName, SessionObjectType, sessionID)
}

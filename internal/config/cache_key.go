package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key for an authenticated session by its JWT ID.
// Deleting this key is what makes logout effective.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// ExamPayloadKey returns the cache key for the student-facing exam payload
// (questions without correct answers).
func (r *CacheKeyStruct) ExamPayloadKey(examID string) string {
	return fmt.Sprintf("exam:%s:payload", examID)
}

// AttemptAnswersKey returns the cache key for a student's best-effort
// answer checkpoint during a live attempt.
func (r *CacheKeyStruct) AttemptAnswersKey(studentID string, examID string) string {
	return fmt.Sprintf("attempt:%s:exam:%s:answers", studentID, examID)
}

// WatchChannel returns the Redis Pub/Sub channel carrying change
// notifications for a collection.
func (r *CacheKeyStruct) WatchChannel(collection string) string {
	return fmt.Sprintf("watch:%s", collection)
}

var CacheKey = NewCacheKeyStruct()

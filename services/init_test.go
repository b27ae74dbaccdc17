package services

import "testing"

func TestInitializeCacheSelection(t *testing.T) {
	setupTestDB(t)

	t.Setenv("REDIS_URL", "")
	Initialize()
	if _, ok := Summaries.Cache.(*MemoryCache); !ok {
		t.Errorf("without REDIS_URL the summary cache should be in-process, got %T", Summaries.Cache)
	}

	t.Setenv("REDIS_URL", "localhost:6379")
	Initialize()
	if _, ok := Summaries.Cache.(RedisCache); !ok {
		t.Errorf("with REDIS_URL the summary cache should be Redis, got %T", Summaries.Cache)
	}
}

package services

import "os"

// Shared service instances, wired after storage is up.
var (
	Notifications *Notifier
	Summaries     *SummaryService
	Follows       *FollowService
	Votes         *VoteService
	Closer        *CloseScheduler
)

// Initialize wires the service graph. Call after InitializeDB/InitializeRedis.
// Without REDIS_URL the summary cache runs on the in-process map instead.
func Initialize() {
	Notifications = NewNotifier(nil)

	var cache Cache = RedisCache{}
	if os.Getenv("REDIS_URL") == "" {
		cache = NewMemoryCache()
	}
	Summaries = NewSummaryService(cache)

	Follows = NewFollowService(Notifications)
	Votes = NewVoteService(Notifications, Summaries)
	Closer = NewCloseScheduler(Votes)
	Votes.Scheduler = Closer
	Closer.RestorePending()
}

// Package metrics derives contributor statistics from ledger
// collections. Aggregation is a pure function: it performs no I/O,
// never fails and never mutates its inputs, which keeps it trivially
// testable without any of the reactive machinery around it.
package metrics

import "github.com/taskbounty/daoboard/internal/models"

// Aggregate computes the statistics snapshot for the given wallet
// address over one consistent read of the ledger.
//
// The address may be empty, meaning no wallet is connected; an empty
// address matches no task. claimedTasks must already be scoped to the
// address by the ledger (that contract lives upstream, in one place),
// so its length is trusted as the claimed count. A nil votes slice
// means the vote collection has not loaded yet and counts the same as
// an empty one.
func Aggregate(address string, allTasks, claimedTasks []models.Task, votes []models.Vote) models.Stats {
	stats := models.Stats{Address: address}

	for _, task := range allTasks {
		if task.Creator == "" {
			// a record with no creator matches nobody
			continue
		}
		if task.Creator == address {
			stats.CreatedCount++
		}
	}

	stats.ClaimedCount = len(claimedTasks)
	for _, task := range claimedTasks {
		if task.Status == models.StatusCompleted {
			stats.CompletedCount++
		}
	}

	if stats.ClaimedCount > 0 {
		// round half up, in integer arithmetic
		stats.CompletionRate = (200*stats.CompletedCount + stats.ClaimedCount) / (2 * stats.ClaimedCount)
	}

	stats.VoteCount = len(votes)
	return stats
}

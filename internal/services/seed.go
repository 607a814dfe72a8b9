package services

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/taskbounty/daoboard/internal/models"
)

// ParseSeed decodes a demo seed fixture into ledger records. The
// document has a "tasks" array and an optional "votes" array; a
// missing "votes" key yields a nil slice, preserving the "not yet
// loaded" state, while an empty array yields a loaded-but-empty
// collection. Missing record fields are tolerated and default to the
// zero value; the ledger fills in ids and timestamps on import.
func ParseSeed(data []byte) ([]models.Task, []models.Vote, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, ErrMalformedSeed
	}

	var tasks []models.Task
	gjson.GetBytes(data, "tasks").ForEach(func(_, value gjson.Result) bool {
		task := models.Task{
			ID:       value.Get("id").String(),
			Creator:  value.Get("creator").String(),
			Claimant: value.Get("claimant").String(),
			Title:    value.Get("title").String(),
			Reward:   value.Get("reward").Uint(),
			Status:   value.Get("status").String(),
		}
		if deadline := value.Get("deadline").Int(); deadline > 0 {
			task.Deadline = time.Unix(deadline, 0)
		}
		tasks = append(tasks, task)
		return true
	})

	var votes []models.Vote
	if result := gjson.GetBytes(data, "votes"); result.Exists() {
		votes = []models.Vote{}
		result.ForEach(func(_, value gjson.Result) bool {
			votes = append(votes, models.Vote{
				ID:      value.Get("id").String(),
				TaskID:  value.Get("task_id").String(),
				Voter:   value.Get("voter").String(),
				Support: value.Get("support").Bool(),
			})
			return true
		})
	}

	return tasks, votes, nil
}

package redis

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"lingo-shooter/internal/domain"
)

const (
	scoresKey   = "scores"
	achievedKey = "scores:achieved"
)

// ScoreBoard keeps the best score per user in a sorted set:
//
//	ZADD scores GT CH {score} {userID}
//	HSET scores:achieved {userID} {unix millis}
type ScoreBoard struct {
	client *redis.Client
}

func NewScoreBoard(client *redis.Client) *ScoreBoard {
	return &ScoreBoard{client: client}
}

func (b *ScoreBoard) Submit(ctx context.Context, entry domain.ScoreEntry) error {
	changed, err := b.client.ZAddArgs(ctx, scoresKey, redis.ZAddArgs{
		GT:      true,
		Ch:      true,
		Members: []redis.Z{{Score: float64(entry.Score), Member: entry.UserID}},
	}).Result()
	if err != nil {
		return err
	}
	if changed == 0 {
		return nil
	}
	return b.client.HSet(ctx, achievedKey, entry.UserID, entry.AchievedAt.UnixMilli()).Err()
}

func (b *ScoreBoard) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	members, err := b.client.ZRevRangeWithScores(ctx, scoresKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(members) == limit {
		// Redis orders ties by member; pull every tie at the cut so achieved time decides.
		if members, err = b.withTies(ctx, members); err != nil {
			return nil, err
		}
	}
	entries := make([]domain.ScoreEntry, 0, len(members))
	if len(members) == 0 {
		return entries, nil
	}

	users := make([]string, len(members))
	for i, m := range members {
		users[i], _ = m.Member.(string)
	}
	achieved, err := b.client.HMGet(ctx, achievedKey, users...).Result()
	if err != nil {
		return nil, err
	}
	for i, m := range members {
		entry := domain.ScoreEntry{UserID: users[i], Score: int(m.Score)}
		if raw, ok := achieved[i].(string); ok {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entry.AchievedAt = time.UnixMilli(ms).UTC()
			}
		}
		entries = append(entries, entry)
	}

	// Ties go to whoever reached the score first, then by user id.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].AchievedAt.Equal(entries[j].AchievedAt) {
			return entries[i].AchievedAt.Before(entries[j].AchievedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (b *ScoreBoard) withTies(ctx context.Context, members []redis.Z) ([]redis.Z, error) {
	last := strconv.FormatFloat(members[len(members)-1].Score, 'f', -1, 64)
	tied, err := b.client.ZRevRangeByScoreWithScores(ctx, scoresKey, &redis.ZRangeBy{Min: last, Max: last}).Result()
	if err != nil {
		return nil, err
	}
	seen := make(map[interface{}]struct{}, len(members))
	for _, m := range members {
		seen[m.Member] = struct{}{}
	}
	for _, m := range tied {
		if _, ok := seen[m.Member]; !ok {
			members = append(members, m)
		}
	}
	return members, nil
}

package store

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// replyCacheSize bounds the cache; repeated utterances within a session
// are common ("si", "no", "grande") and cheap to replay.
const replyCacheSize = 50

// ReplyCache memoizes assistant replies keyed by utterance, turn count
// and session, so an identical re-sent turn answers without another
// model call.
type ReplyCache struct {
	lru *lru.Cache[string, string]
}

func NewReplyCache() (*ReplyCache, error) {
	c, err := lru.New[string, string](replyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("reply cache: %w", err)
	}
	return &ReplyCache{lru: c}, nil
}

// Key binds the reply to the exact point in the conversation. The turn
// count keeps "si" at the size step apart from "si" at confirmation.
func Key(utterance string, turns int, sessionID string) string {
	return fmt.Sprintf("%s-%d-%s", utterance, turns, sessionID)
}

func (c *ReplyCache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *ReplyCache) Add(key, reply string) {
	c.lru.Add(key, reply)
}

func (c *ReplyCache) Purge() {
	c.lru.Purge()
}

package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/chat"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

const (
	chatCachePrefix = "chatbot:answer:"
	chatCacheTTL    = 10 * time.Minute
	chatLogTimeout  = 5 * time.Second
)

// fallbackAnswer keeps the frontend functional when the AI is down or the
// API key is not configured.
const fallbackAnswer = "Sorry, the AI assistant is temporarily unavailable. " +
	"Here is a fallback answer: we recommend dropping e-waste at certified " +
	"collection centers and following manufacturer take-back policies."

// Completer is the minimal AI surface the chatbot needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ChatbotHandler struct {
	ai        Completer
	logs      *chat.Repo
	cache     *redis.Client
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewChatbotHandler(ai Completer, logs *chat.Repo, cache *redis.Client, validator middleware.TokenValidator, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{ai: ai, logs: logs, cache: cache, validator: validator, logger: logger}
}

type chatQueryRequest struct {
	Question string `json:"question"`
}

// Query answers a question via the AI assistant. Public: a Bearer token is
// optional and only used to attribute the transcript. Answers are cached in
// Redis for a short window so repeated questions skip the AI call.
// POST /api/chatbot/query.
func (h *ChatbotHandler) Query(c *gin.Context) {
	var req chatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "question is required")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.Error(c, http.StatusBadRequest, "question is required")
		return
	}
	ctx := c.Request.Context()

	answer, cached := h.cachedAnswer(ctx, question)
	if !cached {
		text, err := h.ai.Complete(ctx, question)
		if err != nil || strings.TrimSpace(text) == "" {
			if err != nil {
				h.logger.Warn("chatbot completion failed", zap.Error(err))
			}
			answer = fallbackAnswer
		} else {
			answer = text
			h.storeAnswer(ctx, question, answer)
		}
	}

	// Transcript logging never blocks or fails the response.
	userID := h.optionalUserID(c)
	go func(q, a string, uid *int64) {
		ctx, cancel := context.WithTimeout(context.Background(), chatLogTimeout)
		defer cancel()
		if err := h.logs.Insert(ctx, uid, q, a); err != nil {
			h.logger.Warn("chat log insert failed", zap.Error(err))
		}
	}(question, answer, userID)

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"response": gin.H{"answer": answer},
	})
}

func (h *ChatbotHandler) cachedAnswer(ctx context.Context, question string) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	v, err := h.cache.Get(ctx, chatCacheKey(question)).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("chatbot cache read failed", zap.Error(err))
		}
		return "", false
	}
	return v, true
}

func (h *ChatbotHandler) storeAnswer(ctx context.Context, question, answer string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, chatCacheKey(question), answer, chatCacheTTL).Err(); err != nil {
		h.logger.Warn("chatbot cache write failed", zap.Error(err))
	}
}

func chatCacheKey(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(question)))
	return chatCachePrefix + hex.EncodeToString(sum[:])
}

// optionalUserID extracts the user id from an optional Bearer token; an
// absent or invalid token means an anonymous transcript.
func (h *ChatbotHandler) optionalUserID(c *gin.Context) *int64 {
	raw := c.GetHeader(middleware.HeaderAuthorization)
	if !strings.HasPrefix(raw, middleware.BearerPrefix) {
		return nil
	}
	token := strings.TrimPrefix(raw, middleware.BearerPrefix)
	userID, _, err := h.validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return &userID
}

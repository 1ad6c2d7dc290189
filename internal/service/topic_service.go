package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/llm"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

const (
	defaultTopicCount = 5
	maxTopicCount     = 10
)

var (
	ErrTopicsNotConfigured = apperr.Unavailable("topic suggestions are not configured")
	ErrTopicsFailed        = apperr.Unavailable("topic suggestion service failed")

	// 行首编号或项目符号：1. 1) - * •
	topicPrefix = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s+)`)
)

// SuggestTopicsInput 选题建议参数
type SuggestTopicsInput struct {
	Keywords string `json:"keywords" binding:"required,max=200"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=10"`
}

// Completer 补全接口，由 llm.Client 实现
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

type TopicService interface {
	Suggest(ctx context.Context, in SuggestTopicsInput) ([]string, error)
}

type topicService struct {
	llm Completer
}

func NewTopicService(c Completer) TopicService {
	return &topicService{llm: c}
}

func (s *topicService) Suggest(ctx context.Context, in SuggestTopicsInput) ([]string, error) {
	if s.llm == nil || !s.llm.Configured() {
		return nil, ErrTopicsNotConfigured
	}
	count := in.Count
	if count == 0 {
		count = defaultTopicCount
	}
	if count < 1 || count > maxTopicCount {
		return nil, apperr.Validationf("count must be between 1 and %d", maxTopicCount)
	}
	keywords := strings.TrimSpace(in.Keywords)
	if keywords == "" {
		return nil, apperr.Validation("keywords is required")
	}

	out, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: "You suggest engaging blog post titles. Reply with one title per line and nothing else."},
		{Role: "user", Content: fmt.Sprintf("Suggest %d blog post topics about: %s", count, keywords)},
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, ErrTopicsNotConfigured
		}
		logger.Warn("topic suggestion failed", zap.Error(err))
		return nil, ErrTopicsFailed.WithCause(err)
	}
	return ParseTopics(out, count), nil
}

// ParseTopics 每行一个题目，去掉编号、符号和引号，跳过空行，最多 max 条
func ParseTopics(text string, max int) []string {
	topics := make([]string, 0, max)
	for _, line := range strings.Split(text, "\n") {
		line = topicPrefix.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"'*`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		topics = append(topics, line)
		if len(topics) == max {
			break
		}
	}
	return topics
}

package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/pkg/logger"
)

// ViewCounter persists view increments.
type ViewCounter interface {
	IncrementViews(ctx context.Context, id string, n int64) error
}

// ViewRecorder 异步累加文章浏览量，阅读请求不等待写库。
// 队列满时直接丢弃并记录告警。
type ViewRecorder struct {
	counter ViewCounter
	ch      chan string

	// mu 保证 stop 之后不会再有 id 进入队列，入队与关闭互斥
	mu      sync.RWMutex
	stopped bool

	wg     sync.WaitGroup
	stopCh chan struct{}
}

func NewViewRecorder(counter ViewCounter, queueSize int) *ViewRecorder {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &ViewRecorder{counter: counter, ch: make(chan string, queueSize), stopCh: make(chan struct{})}
}

// Start 启动 workers 个消费协程；返回的函数停止并尽量排空队列
func (r *ViewRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.loop()
	}
	return r.stop
}

func (r *ViewRecorder) loop() {
	defer r.wg.Done()
	for {
		select {
		case id := <-r.ch:
			r.record(id)
		case <-r.stopCh:
			// 退出前处理完已入队的记录
			for {
				select {
				case id := <-r.ch:
					r.record(id)
				default:
					return
				}
			}
		}
	}
}

func (r *ViewRecorder) record(postID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.counter.IncrementViews(ctx, postID, 1); err != nil {
		logger.Warn("record view failed", zap.String("post_id", postID), zap.Error(err))
	}
}

func (r *ViewRecorder) stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.stopCh)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue 记录一次浏览，不阻塞；返回是否入队
func (r *ViewRecorder) Enqueue(postID string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return false
	}
	select {
	case r.ch <- postID:
		return true
	default:
		logger.Warn("view queue full, drop view", zap.String("post_id", postID))
		return false
	}
}

// QueueLen 返回当前队列长度（采样值）
func (r *ViewRecorder) QueueLen() int { return len(r.ch) }

// Package worker 提供进程内的异步任务池
// 缓存失效、群事件推送等提交后的副作用都交给这里执行，不阻塞请求
package worker

import (
	"sync"

	"go.uber.org/zap"
)

// Submitter 任务提交接口，Service 层只依赖它
type Submitter interface {
	Submit(task func())
}

// TrySubmitter 不阻塞调用方的提交接口，放不下时丢弃任务
type TrySubmitter interface {
	TrySubmit(task func()) bool
}

// Pool 固定数量 Worker 消费带缓冲的任务通道
type Pool struct {
	name     string
	taskChan chan func()
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool 创建并启动 Worker Pool
// workerNum: 后台协程数量
// bufferSize: 通道缓冲区大小
func NewPool(name string, workerNum, bufferSize int) *Pool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	p := &Pool{
		name:     name,
		taskChan: make(chan func(), bufferSize),
	}
	p.wg.Add(workerNum)
	for i := 0; i < workerNum; i++ {
		go p.startWorker()
	}
	zap.L().Info("worker pool started", zap.String("pool", name), zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// startWorker 启动单个 Worker 消费循环
func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskChan {
		p.run(task)
	}
}

// run 执行单个任务，panic 只影响当前任务
func (p *Pool) run(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("worker task panic", zap.String("pool", p.name), zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// Submit 提交异步任务
// 通道已满或 Pool 已关闭时降级为同步执行
func (p *Pool) Submit(task func()) {
	p.mu.RLock()
	if !p.closed {
		select {
		case p.taskChan <- task:
			p.mu.RUnlock()
			return
		default:
			zap.L().Warn("worker task channel full, executing synchronously", zap.String("pool", p.name))
		}
	}
	p.mu.RUnlock()
	p.run(task)
}

// TrySubmit 只在通道有空位时入队，永远不在调用方协程执行任务
// 通道已满或 Pool 已关闭时返回 false
func (p *Pool) TrySubmit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.taskChan <- task:
		return true
	default:
		return false
	}
}

// Close 停止接收新任务并等待已提交的任务执行完毕
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskChan)
	p.mu.Unlock()
	p.wg.Wait()
}

// SyncSubmitter 直接在调用方协程执行任务，测试中用来消除异步
type SyncSubmitter struct{}

func (SyncSubmitter) Submit(task func()) {
	if task != nil {
		task()
	}
}

func (SyncSubmitter) TrySubmit(task func()) bool {
	if task != nil {
		task()
	}
	return true
}

var (
	_ Submitter    = (*Pool)(nil)
	_ TrySubmitter = (*Pool)(nil)
	_ TrySubmitter = SyncSubmitter{}
)

package game

import (
	"log"
	"sync"
)

// Intent 宿主（桌面窗口或终端）翻译后的玩家意图
type Intent int

const (
	IntentNone Intent = iota
	IntentJump
	IntentDownPress
	IntentDownRelease
	IntentPause
	IntentConfirm // 确认（游戏结束后重新开始）

	// 代码挑战
	IntentRunCode
	IntentSubmit
	IntentToggleLanguage
	IntentSkip
	IntentCloseChallenge
)

func (i Intent) String() string {
	switch i {
	case IntentJump:
		return "jump"
	case IntentDownPress:
		return "down-press"
	case IntentDownRelease:
		return "down-release"
	case IntentPause:
		return "pause"
	case IntentConfirm:
		return "confirm"
	case IntentRunCode:
		return "run"
	case IntentSubmit:
		return "submit"
	case IntentToggleLanguage:
		return "toggle-language"
	case IntentSkip:
		return "skip"
	case IntentCloseChallenge:
		return "close"
	}
	return "none"
}

// inputBufferSize 每个订阅者的缓冲区大小，满了之后新的意图被丢弃
const inputBufferSize = 32

// InputBus 把宿主产生的意图广播给订阅的场景
//
// 场景订阅时拿到一个带缓冲的通道，在自己的 Update 中排空；
// 场景关闭时调用取消函数，之后不再收到任何意图。
type InputBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Intent
}

// NewInputBus 创建输入总线
func NewInputBus() *InputBus {
	return &InputBus{subs: make(map[int]chan Intent)}
}

// Subscribe 订阅意图
//
// 返回：
//   - <-chan Intent: 意图通道
//   - func(): 取消订阅（可重复调用），调用后通道被关闭
func (b *InputBus) Subscribe() (<-chan Intent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Intent, inputBufferSize)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish 把意图投递给所有订阅者，返回成功投递的数量
func (b *InputBus) Publish(intent Intent) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for id, ch := range b.subs {
		select {
		case ch <- intent:
			delivered++
		default:
			log.Printf("[InputBus] subscriber %d buffer full, dropped %s", id, intent)
		}
	}
	return delivered
}

// Subscribers 当前订阅者数量
func (b *InputBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Drain 非阻塞地取出通道中所有待处理的意图
func Drain(ch <-chan Intent) []Intent {
	var intents []Intent
	for {
		select {
		case intent, ok := <-ch:
			if !ok {
				return intents
			}
			intents = append(intents, intent)
		default:
			return intents
		}
	}
}

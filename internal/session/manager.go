package session

import (
	"net/http"
	"strings"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/logger"

	"github.com/gorilla/sessions"
)

const defaultSessionName = "cupcake_session"

// Manager 基于 gorilla/sessions 的会话读写
type Manager struct {
	store sessions.Store
	name  string
}

// NewManager 创建会话管理器
func NewManager(store sessions.Store, name string) *Manager {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSessionName
	}
	return &Manager{store: store, name: name}
}

// Name 返回 cookie 名称
func (m *Manager) Name() string {
	return m.name
}

// Load 读取请求会话，载荷损坏时按新会话处理
func (m *Manager) Load(r *http.Request) (*Context, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		logger.Warnw("session_load_failed", "error", err)
		if sess == nil {
			return NewContext(State{}), nil
		}
	}
	state, err := decodeState(sess.Values[constants.SessionStateKey])
	if err != nil {
		logger.Warnw("session_state_decode_failed", "error", err)
		return NewContext(State{}), nil
	}
	return NewContext(state), nil
}

// Save 写回会话，清空后的会话直接过期
func (m *Manager) Save(r *http.Request, w http.ResponseWriter, ctx *Context) error {
	if !ctx.Dirty() {
		return nil
	}
	sess, err := m.store.Get(r, m.name)
	if err != nil && sess == nil {
		return err
	}
	state := ctx.State()
	if ctx.Cleared() && state.IsZero() {
		delete(sess.Values, constants.SessionStateKey)
		sess.Options.MaxAge = -1
		return sess.Save(r, w)
	}
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	sess.Values[constants.SessionStateKey] = payload
	return sess.Save(r, w)
}

// NewCookieStore 按配置创建签名（可选加密）的 cookie 存储
func NewCookieStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore(keyPairs(cfg)...)
	store.Options = cookieOptions(cfg)
	store.MaxAge(store.Options.MaxAge)
	return store
}

func keyPairs(cfg config.SessionConfig) [][]byte {
	pairs := [][]byte{[]byte(cfg.Secret)}
	if key := strings.TrimSpace(cfg.EncryptionKey); key != "" {
		pairs = append(pairs, []byte(key))
	}
	return pairs
}

func cookieOptions(cfg config.SessionConfig) *sessions.Options {
	maxAge := cfg.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 7 * 24 * 3600
	}
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

package session

import "github.com/dujiao-next/cupcake/internal/models"

// Context 请求级会话上下文
// 由中间件在请求开始时加载，结束前按需写回
type Context struct {
	identity  Identity
	transient *Identity
	cart      models.Cart
	dirty     bool
	cleared   bool
}

// NewContext 从已保存的载荷创建上下文
func NewContext(state State) *Context {
	return &Context{identity: state.Identity, cart: state.Cart.Clone()}
}

// Identity 当前生效的身份，Bearer 身份优先于会话身份
func (c *Context) Identity() Identity {
	if c == nil {
		return Identity{}
	}
	if c.transient != nil {
		return *c.transient
	}
	return c.identity
}

// Cart 返回购物袋副本
func (c *Context) Cart() models.Cart {
	if c == nil {
		return models.Cart{}
	}
	return c.cart.Clone()
}

// SetIdentity 建立会话身份
func (c *Context) SetIdentity(identity Identity) {
	c.identity = identity
	c.cleared = false
	c.dirty = true
}

// UseBearerIdentity 使用令牌身份，仅本次请求有效，不写回会话
func (c *Context) UseBearerIdentity(identity Identity) {
	c.transient = &identity
}

// SetCart 替换购物袋
func (c *Context) SetCart(cart models.Cart) {
	c.cart = cart.Clone()
	c.dirty = true
}

// Clear 清空身份与购物袋
func (c *Context) Clear() {
	c.identity = Identity{}
	c.transient = nil
	c.cart = models.Cart{}
	c.cleared = true
	c.dirty = true
}

// Dirty 是否需要写回
func (c *Context) Dirty() bool {
	return c != nil && c.dirty
}

// Cleared 是否在本次请求中被清空
func (c *Context) Cleared() bool {
	return c != nil && c.cleared
}

// State 需要持久化的载荷
func (c *Context) State() State {
	if c == nil {
		return State{}
	}
	return State{Identity: c.identity, Cart: c.cart.Clone()}
}

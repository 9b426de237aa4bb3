package session

import (
	"encoding/json"
	"fmt"

	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/models"
)

// Identity 会话身份快照
type Identity struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// IsAuthenticated 是否已登录
func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// Role 返回授权角色，未登录为空
func (i Identity) Role() string {
	switch {
	case !i.IsAuthenticated():
		return ""
	case i.IsAdmin:
		return constants.RoleAdmin
	default:
		return constants.RoleCustomer
	}
}

// IdentityOf 由用户构建身份快照
func IdentityOf(user *models.User) Identity {
	if user == nil {
		return Identity{}
	}
	return Identity{UserID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin}
}

// State 会话中保存的完整载荷
type State struct {
	Identity Identity    `json:"identity"`
	Cart     models.Cart `json:"cart"`
}

// IsZero 是否为空载荷
func (s State) IsZero() bool {
	return !s.Identity.IsAuthenticated() && s.Identity.Name == "" && len(s.Cart) == 0
}

func encodeState(state State) (string, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func decodeState(raw interface{}) (State, error) {
	var state State
	var payload []byte
	switch v := raw.(type) {
	case nil:
		return state, nil
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		return state, fmt.Errorf("unexpected %s payload type %T", constants.SessionStateKey, raw)
	}
	if len(payload) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

package crypto

import (
	"sync"

	"github.com/udisondev/mixkey/internal/bignum"
)

// WorkspacePool — пул переиспользуемых bignum.Workspace.
// Снижает давление на GC при пакетном восстановлении ключей.
type WorkspacePool struct {
	pool sync.Pool
}

// NewWorkspacePool создаёт пустой пул.
func NewWorkspacePool() *WorkspacePool {
	p := &WorkspacePool{}
	p.pool.New = func() any {
		return bignum.NewWorkspace()
	}
	return p
}

// Get возвращает обнулённый Workspace, по возможности из пула.
func (p *WorkspacePool) Get() *bignum.Workspace {
	return p.pool.Get().(*bignum.Workspace)
}

// Put обнуляет Workspace и возвращает его в пул.
func (p *WorkspacePool) Put(w *bignum.Workspace) {
	if w == nil {
		return
	}
	w.Clear()
	p.pool.Put(w)
}

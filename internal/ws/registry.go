package ws

import "sync"

// Registry es el índice en memoria de usuario -> sesiones vivas. Un usuario
// puede tener varias sesiones simultáneas (varias pestañas o dispositivos).
// Todas las mutaciones pasan por Register/Unregister; el mapa nunca conserva
// una clave con colección vacía, así "¿está conectado?" es un lookup simple.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string][]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string][]*Session),
	}
}

// Register agrega la sesión a la colección del usuario. Registrar dos veces
// la misma sesión es un no-op.
func (r *Registry) Register(userID string, session *Session) {
	if userID == "" || session == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions[userID] {
		if existing == session {
			return
		}
	}
	r.sessions[userID] = append(r.sessions[userID], session)
}

// Unregister quita la sesión; si la colección queda vacía elimina la clave.
// Es idempotente: desregistrar una sesión ausente no es un error (los cierres
// duplicados son normales).
func (r *Registry) Unregister(userID string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.sessions[userID]
	if !ok {
		return
	}
	for i, existing := range list {
		if existing == session {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.sessions, userID)
		return
	}
	r.sessions[userID] = list
}

// Lookup devuelve una copia de las sesiones vivas del usuario; vacío si no
// tiene ninguna.
func (r *Registry) Lookup(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sessions[userID]
	if len(list) == 0 {
		return nil
	}
	out := make([]*Session, len(list))
	copy(out, list)
	return out
}

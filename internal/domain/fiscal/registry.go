package fiscal

import (
	"fmt"
	"sync"

	"github.com/jhoicas/cotizador-api/internal/domain"
)

// Registry mantiene el conjunto cerrado de regímenes y cuál está activo.
// Es una caché de lectura: la selección persistida vive en la capa de
// persistencia y este registro se sincroniza con ella vía SetActive.
//
// Lecturas concurrentes sin coordinación; escrituras bajo mutex para preservar
// el invariante de exactamente-un-activo aun con SetActive concurrentes.
type Registry struct {
	mu      sync.RWMutex
	regimes []TaxRegime // orden estable para ListAll
	active  map[string]bool
}

// RegimeInfo es un régimen junto con su flag de activación, para listados.
type RegimeInfo struct {
	TaxRegime
	IsActive bool
}

// NewRegistry construye el registro con los regímenes dados y el activo inicial.
// Falla con ErrNotFound si activeName no pertenece al conjunto.
func NewRegistry(regimes []TaxRegime, activeName string) (*Registry, error) {
	r := &Registry{
		regimes: make([]TaxRegime, len(regimes)),
		active:  make(map[string]bool, len(regimes)),
	}
	copy(r.regimes, regimes)
	found := false
	for _, reg := range r.regimes {
		if reg.Name == activeName {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: régimen %q", domain.ErrNotFound, activeName)
	}
	r.active[activeName] = true
	return r, nil
}

// NewDefaultRegistry construye el registro con los regímenes compilados y el
// activo por defecto (persona natural).
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinRegimes(), DefaultActiveRegime)
	if err != nil {
		// BuiltinRegimes siempre contiene DefaultActiveRegime
		panic(err)
	}
	return r
}

// GetActive devuelve el único régimen activo. Falla con ErrConfiguration si hay
// cero o más de uno: eso nunca debe pasar en un sistema bien operado y señala
// un bug de configuración, no una condición a tolerar en silencio.
func (r *Registry) GetActive() (TaxRegime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result TaxRegime
	count := 0
	for _, reg := range r.regimes {
		if r.active[reg.Name] {
			result = reg
			count++
		}
	}
	if count != 1 {
		return TaxRegime{}, fmt.Errorf("%w: %d regímenes activos", domain.ErrConfiguration, count)
	}
	return result, nil
}

// Get busca un régimen por nombre. ErrNotFound si no está en el conjunto cerrado.
func (r *Registry) Get(name string) (TaxRegime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.regimes {
		if reg.Name == name {
			return reg, nil
		}
	}
	return TaxRegime{}, fmt.Errorf("%w: régimen %q", domain.ErrNotFound, name)
}

// ListAll enumera todos los regímenes configurados con su flag de activación,
// en orden estable, para administración.
func (r *Registry) ListAll() []RegimeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]RegimeInfo, 0, len(r.regimes))
	for _, reg := range r.regimes {
		list = append(list, RegimeInfo{TaxRegime: reg, IsActive: r.active[reg.Name]})
	}
	return list
}

// SetActive desactiva el régimen anterior y activa el nombrado, atómicamente.
// Devuelve el nombre del régimen previo para que el llamador registre la
// auditoría (quién, cuándo, de cuál a cuál); este registro no persiste nada.
func (r *Registry) SetActive(name string) (previous string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, reg := range r.regimes {
		if reg.Name == name {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: régimen %q", domain.ErrNotFound, name)
	}

	for active := range r.active {
		previous = active
	}
	r.active = map[string]bool{name: true}
	return previous, nil
}

package entity

// Servicio es el destino de un despacho (un servicio o unidad del hospital).
type Servicio struct {
	IDServicio int64
	Nombre     string
	Activo     bool
}

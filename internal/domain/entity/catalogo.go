package entity

// CatalogoInsumos es una entrada del catálogo: la definición canónica de un
// insumo y su presentación, con el renglón presupuestario al que pertenece.
type CatalogoInsumos struct {
	IDCatalogoInsumos  int64
	Renglon            int
	CodigoInsumo       int64
	NombreInsumo       string
	Caracteristicas    string
	CodigoPresentacion int64
	NombrePresentacion string
	UnidadMedida       string
}

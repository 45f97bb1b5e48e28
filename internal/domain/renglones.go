package domain

// RenglonPermitido verifica si el renglón presupuestario está dentro del
// conjunto autorizado al usuario. Un conjunto vacío niega todo.
func RenglonPermitido(permitidos []int, renglon int) bool {
	if len(permitidos) == 0 || renglon <= 0 {
		return false
	}
	for _, r := range permitidos {
		if r == renglon {
			return true
		}
	}
	return false
}

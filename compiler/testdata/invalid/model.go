package invalid

//simpleorm:entity
type Account interface {
	GetName() string
	SetName(string)
}

//simpleorm:entity
type Order interface {
	GetTotal(currency string) float64
	SetTotal(float64)
}

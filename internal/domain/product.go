package domain

// Product is the persisted inventory record. Field names on the wire follow the
// document layout {nombre, descripcion, cantidad, precio, imagen}.
type Product struct {
	ID          string  `gorm:"primaryKey;size:32" json:"id" bson:"_id,omitempty" mapstructure:"-"`
	Name        string  `gorm:"column:nombre;index" json:"nombre" bson:"nombre" mapstructure:"nombre" csv:"nombre"`
	Description string  `gorm:"column:descripcion;type:text" json:"descripcion" bson:"descripcion" mapstructure:"descripcion" csv:"descripcion"`
	Quantity    int     `gorm:"column:cantidad" json:"cantidad" bson:"cantidad" mapstructure:"cantidad" csv:"cantidad"`
	Price       float64 `gorm:"column:precio" json:"precio" bson:"precio" mapstructure:"precio" csv:"precio"`
	Image       string  `gorm:"column:imagen;type:text" json:"imagen" bson:"imagen" mapstructure:"imagen" csv:"-"` // base64 payload
}

// TableName Specify table name
func (Product) TableName() string {
	return "productos"
}

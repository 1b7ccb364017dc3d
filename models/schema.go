package models

// DatabaseTable mirrors one table entry of a db_<name>_definitions.json file.
type DatabaseTable struct {
	TableName    string        `json:"tableName"`
	DatabaseName string        `json:"databaseName"`
	Fields       []SchemaField `json:"fields"`
}

type SchemaField struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Label         string `json:"label,omitempty"`
	SerializeName string `json:"serializeName,omitempty"`
}

package config

// The ten recognized configuration keys, exactly as they appear in entity
// config files. Matching is exact and case-sensitive.
const (
	KeyEntityName        = "entityInfo.name"
	KeyEntityPurpose     = "entityInfo.purpose"
	KeyEntityNumKey      = "entityInfo.number_key"
	KeyAuthPubkeyPath    = "authInfo.pubkey.path"
	KeyEntityPrivkeyPath = "entityInfo.privkey.path"
	KeyAuthIPAddress     = "auth.ip.address"
	KeyAuthPortNumber    = "auth.port.number"
	KeyServerIPAddress   = "entity.server.ip.address"
	KeyServerPortNumber  = "entity.server.port.number"
	KeyNetworkProtocol   = "network.protocol"
)

// Field identifies one slot of the Config record.
type Field int

const (
	FieldUnknown Field = iota
	FieldName
	FieldPurpose
	FieldNumKey
	FieldAuthPubkeyPath
	FieldEntityPrivkeyPath
	FieldAuthIPAddress
	FieldAuthPort
	FieldServerIPAddress
	FieldServerPort
	FieldNetworkProtocol
)

var fieldByKey = map[string]Field{
	KeyEntityName:        FieldName,
	KeyEntityPurpose:     FieldPurpose,
	KeyEntityNumKey:      FieldNumKey,
	KeyAuthPubkeyPath:    FieldAuthPubkeyPath,
	KeyEntityPrivkeyPath: FieldEntityPrivkeyPath,
	KeyAuthIPAddress:     FieldAuthIPAddress,
	KeyAuthPortNumber:    FieldAuthPort,
	KeyServerIPAddress:   FieldServerIPAddress,
	KeyServerPortNumber:  FieldServerPort,
	KeyNetworkProtocol:   FieldNetworkProtocol,
}

// KeyField maps a configuration key string to its record field. It returns
// FieldUnknown for anything outside the recognized set. The mapping is static
// and reads no record or global state.
func KeyField(key string) Field {
	if f, ok := fieldByKey[key]; ok {
		return f
	}
	return FieldUnknown
}

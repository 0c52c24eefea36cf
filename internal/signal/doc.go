// Package signal parses the namespaced reference language of system
// descriptions and resolves references to HDL names, directions and widths.
//
// A reference is a colon-separated path whose first segment is a namespace:
//
//	CONSTANT:<literal>
//	CUSTOM:<name>
//	PARAMETER:<instance>:<param>
//	BOARD:<port>[:<signal>]
//	MODULE:<instance>:<interface>[:<signal>]
//	INTERNAL:<CUSTOM|BOARD|MODULE reference>
//	SYSTEM:<dotted.path>
//	BUSCONTENTION:<handshake>:<MODULE reference>
//
// A bare decimal number is a numeral and stands for itself.
package signal

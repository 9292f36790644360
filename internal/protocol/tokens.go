// Package protocol encodes operator commands into the device's text tokens
// and classifies messages coming back from the device.
package protocol

// Client to device.
const (
	TokenStream    = "stream"
	TokenDetect    = "detect"
	TokenRecognise = "recognise"
	TokenDeleteAll = "delete_all"

	capturePrefix = "capture:"
	removePrefix  = "remove:"
)

// Device to client.
const (
	TokenDeleteFaces = "delete_faces"

	listFacePrefix = "listface"
	// The name starts after "listface" and one delimiter byte.
	listFaceNameOffset = len(listFacePrefix) + 1
)

package gateway

import "encoding/xml"

// messagingResponse is the provider's XML reply envelope. Each segment
// becomes its own <Message> element and is delivered separately.
type messagingResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// renderReply encodes reply segments as the provider's markup, including
// the XML declaration.
func renderReply(segments []string) ([]byte, error) {
	out, err := xml.Marshal(messagingResponse{Messages: segments})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

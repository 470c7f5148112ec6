package enums

// ChannelState is the externally observable state of the realtime channel.
type ChannelState string

const (
	ChannelStateDisconnected ChannelState = "disconnected"
	ChannelStateConnecting   ChannelState = "connecting"
	ChannelStateConnected    ChannelState = "connected"
)

// String implements fmt.Stringer.
func (c ChannelState) String() string {
	return string(c)
}

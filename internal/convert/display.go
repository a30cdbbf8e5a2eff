package convert

import (
	"fmt"
	"math"
	"strings"

	"github.com/hiraku-ota/czarr/internal/czi"
	"github.com/hiraku-ota/czarr/internal/model"
)

// defaultChannelColor is used when the container declares no display color.
const defaultChannelColor = "FFFFFF"

// ChannelDisplays derives the omero channel display settings from the
// container metadata. The contrast window is min/start = round(low ×
// maxValue) and end = round(high × maxValue), where maxValue comes from
// the component bit depth; channels without usable display limits fall
// back to the full 0..max range and the fallback is reported through
// warnf.
func ChannelDisplays(md *czi.Metadata, warnf func(format string, args ...interface{})) []model.ChannelDisplay {
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}

	maxValue := md.MaxValue()
	displays := make([]model.ChannelDisplay, 0, len(md.Channels))

	for i, ch := range md.Channels {
		d := model.ChannelDisplay{
			Label:  channelLabel(ch, i),
			Color:  channelColor(ch.Color),
			Active: true,
			Max:    maxValue,
		}

		if ch.HasDisplayLimits && ch.Low >= 0 && ch.High > ch.Low && ch.High <= 1 {
			d.Min = math.Round(ch.Low * maxValue)
			d.Start = d.Min
			d.End = math.Round(ch.High * maxValue)
		} else {
			warnf("channel %s: no usable display limits, using full range 0..%v",
				d.Label, maxValue)
			d.Min = 0
			d.Start = 0
			d.End = maxValue
		}
		displays = append(displays, d)
	}
	return displays
}

// channelLabel picks a display label: the channel name, then its id, then
// a positional fallback.
func channelLabel(ch czi.Channel, index int) string {
	if ch.Name != "" {
		return ch.Name
	}
	if ch.ID != "" {
		return ch.ID
	}
	return fmt.Sprintf("Channel %d", index)
}

// channelColor normalizes a container color to the 6-digit RGB hex form
// omero expects. Containers store "#AARRGGBB"; the alpha component is
// dropped.
func channelColor(color string) string {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 {
		return defaultChannelColor
	}
	return strings.ToUpper(c)
}

package designer

import "architectai/internal/foundry"

// ImagePlaceholder substitutes for image content in generated
// documents.
const ImagePlaceholder = "[Image content - see attached diagram]"

// ExtractText returns the ordered text segments of a message. Text
// parts contribute their value, image parts contribute the fixed
// placeholder, unrecognized parts contribute nothing. Total: never
// fails, at worst returns no segments.
func ExtractText(message foundry.Message) []string {
	var segments []string
	for _, part := range message.Content {
		switch part.Kind {
		case foundry.PartText:
			segments = append(segments, part.Text)
		case foundry.PartImageFile:
			segments = append(segments, ImagePlaceholder)
		}
	}
	return segments
}

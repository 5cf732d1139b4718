package slackevent

import "encoding/json"

// Rich-text block tree carried on Message events. The relay does not inspect
// it; it is decoded for completeness and round-tripped verbatim. Each level
// is a tagged union with a raw-carrying fallback, same failure-open posture
// as the inner event taxonomy.

type MessageBlock interface {
	blockType() string
}

type RichTextBlock struct {
	BlockID  string            `json:"block_id"`
	Elements []RichTextElement `json:"elements"`
}

func (*RichTextBlock) blockType() string { return "rich_text" }

type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (u *UnknownBlock) blockType() string { return u.Type }

func (u *UnknownBlock) MarshalJSON() ([]byte, error) { return u.Raw, nil }

type RichTextElement interface {
	richTextElementType() string
}

type RichTextSection struct {
	Elements []RichTextSectionElement `json:"elements"`
}

func (*RichTextSection) richTextElementType() string { return "rich_text_section" }

type UnknownRichTextElement struct {
	Type string
	Raw  json.RawMessage
}

func (u *UnknownRichTextElement) richTextElementType() string { return u.Type }

func (u *UnknownRichTextElement) MarshalJSON() ([]byte, error) { return u.Raw, nil }

type RichTextSectionElement interface {
	sectionElementType() string
}

type TextElement struct {
	Text string `json:"text"`
}

func (*TextElement) sectionElementType() string { return "text" }

type UnknownSectionElement struct {
	Type string
	Raw  json.RawMessage
}

func (u *UnknownSectionElement) sectionElementType() string { return u.Type }

func (u *UnknownSectionElement) MarshalJSON() ([]byte, error) { return u.Raw, nil }

func peekType(raw json.RawMessage) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.Type, nil
}

func decodeBlock(raw json.RawMessage) (MessageBlock, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid message block", Err: err}
	}
	if tag != "rich_text" {
		return &UnknownBlock{Type: tag, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	var wire struct {
		BlockID  string            `json:"block_id"`
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &DecodeError{Reason: "invalid rich_text block", Err: err}
	}
	block := &RichTextBlock{BlockID: wire.BlockID}
	for _, el := range wire.Elements {
		element, err := decodeRichTextElement(el)
		if err != nil {
			return nil, err
		}
		block.Elements = append(block.Elements, element)
	}
	return block, nil
}

func (b *RichTextBlock) MarshalJSON() ([]byte, error) {
	type wire RichTextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*wire
	}{"rich_text", (*wire)(b)})
}

func decodeRichTextElement(raw json.RawMessage) (RichTextElement, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid rich text element", Err: err}
	}
	if tag != "rich_text_section" {
		return &UnknownRichTextElement{Type: tag, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	var wire struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &DecodeError{Reason: "invalid rich_text_section element", Err: err}
	}
	section := &RichTextSection{}
	for _, el := range wire.Elements {
		element, err := decodeSectionElement(el)
		if err != nil {
			return nil, err
		}
		section.Elements = append(section.Elements, element)
	}
	return section, nil
}

func (s *RichTextSection) MarshalJSON() ([]byte, error) {
	type wire RichTextSection
	return json.Marshal(struct {
		Type string `json:"type"`
		*wire
	}{"rich_text_section", (*wire)(s)})
}

func decodeSectionElement(raw json.RawMessage) (RichTextSectionElement, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid rich text section element", Err: err}
	}
	if tag != "text" {
		return &UnknownSectionElement{Type: tag, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	var el TextElement
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, &DecodeError{Reason: "invalid text element", Err: err}
	}
	return &el, nil
}

func (t *TextElement) MarshalJSON() ([]byte, error) {
	type wire TextElement
	return json.Marshal(struct {
		Type string `json:"type"`
		*wire
	}{"text", (*wire)(t)})
}

package client

import (
	"bytes"
	"mime/multipart"
)

// Multipart is a multipart/form-data body. Fields are written in insertion
// order; Files carry raw content (image uploads for admin product forms).
type Multipart struct {
	fields []field
	files  []file
}

type field struct {
	name  string
	value string
}

type file struct {
	fieldName string
	fileName  string
	content   []byte
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) AddField(name, value string) *Multipart {
	m.fields = append(m.fields, field{name: name, value: value})
	return m
}

func (m *Multipart) AddFile(fieldName, fileName string, content []byte) *Multipart {
	m.files = append(m.files, file{fieldName: fieldName, fileName: fileName, content: content})
	return m
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		part, err := writer.CreateFormFile(f.fieldName, f.fileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

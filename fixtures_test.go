package mdblog

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

type captureLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *captureLogger) Infof(format string, args ...interface{}) {}

func (l *captureLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnings...)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func testContent(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"go-basics.md": {Data: []byte(`---
title: Go Basics
category: Go
tags: [go, tutorial]
date: 2024-02-01
author: Ann
coverImage: images/cover.png
---
# Go Basics

Intro text about goroutines.

## Install Go

` + "```go\npackage main\n```" + `

## Next Steps
`)},
		"go-advanced.md":    {Data: []byte("---\ntitle: Advanced Go\ncategory: go\ntags: [go, concurrency]\ndate: 2024-03-01\n---\n# Advanced Go\n\nChannels everywhere.\n")},
		"risk.md":           {Data: []byte("---\ntitle: 风险管理入门\ncategory: 风险管理\ntags: [FRM, 风险管理]\ndate: 2024-01-10\n---\n## 概述\n\nValue at risk.\n")},
		"notes/untitled.md": {Data: []byte("Just some words about rust.\n")},
		"images/cover.png":  {Data: pngBytes(t, 40, 20)},
		"README.txt":        {Data: []byte("not a post")},
	}
}

func testLibrary(t *testing.T, fsys fstest.MapFS) *Library {
	t.Helper()
	lib := NewLibrary(fsys,
		WithLibraryClock(fixedNow),
		WithLogger(&captureLogger{}),
	)
	return lib
}

func article(slug, date, category string, tags ...string) Article {
	return Article{
		Slug:      slug,
		Title:     slug,
		Content:   "body of " + slug,
		Category:  category,
		Tags:      tags,
		Date:      date,
		published: parseDate(date),
	}
}

// Package storage provides interfaces and implementations for persisting the cashback document.
//
// The package supports two types of storage:
// 1. StorageFile - a pretty-printed JSON file on disk.
// 2. StorageMemory - an in-process copy, for sessions that should leave nothing on disk.
//
// Both read and write the whole document at once.
package storage

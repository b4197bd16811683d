package arp

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/config"
)

// ErrNotFound is returned by Lookup when the address has no cache entry
var ErrNotFound = errors.New("no arp entry")

// Entry is one (address, hardware address) pair from the neighbour cache
type Entry struct {
	IP  net.IP
	MAC net.HardwareAddr
}

// Reader returns the current neighbour cache entries
type Reader interface {
	ReadTable(ctx context.Context) ([]Entry, error)
}

// ReaderFunc adapts a function to Reader
type ReaderFunc func(ctx context.Context) ([]Entry, error)

func (f ReaderFunc) ReadTable(ctx context.Context) ([]Entry, error) {
	return f(ctx)
}

// NewReader returns the reader for the named source
func NewReader(source string) (Reader, error) {
	switch source {
	case config.SourceAuto, "":
		return newDefaultReader(), nil
	case config.SourceProc:
		return &ProcReader{Path: procNetARPFile}, nil
	case config.SourceNetlink:
		return newNetlinkReader()
	case config.SourceIPRoute2:
		return &IPRoute2Reader{}, nil
	case config.SourceARP:
		return &CommandReader{}, nil
	}
	return nil, fmt.Errorf("unsupported arp source: %s", source)
}

// Lookup reads the cache and returns the hardware address of ip
func Lookup(ctx context.Context, reader Reader, ip net.IP) (net.HardwareAddr, error) {
	entries, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local ARP table: %w", err)
	}
	for _, entry := range entries {
		if entry.IP.Equal(ip) {
			return entry.MAC, nil
		}
	}
	return nil, ErrNotFound
}

// fallbackReader tries each reader in order until one succeeds
type fallbackReader []Reader

func (readers fallbackReader) ReadTable(ctx context.Context) ([]Entry, error) {
	var errs []error
	for _, reader := range readers {
		entries, err := reader.ReadTable(ctx)
		if err == nil {
			return entries, nil
		}
		gologger.Debug().Msgf("arp source %T failed: %s", reader, err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

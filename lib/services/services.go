// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package services

import (
	"context"
	"errors"
	"fmt"
)

// Service must be implemented by all Services
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type namedService struct {
	name    string
	service Service
}

// ServiceRegistry starts services in registration order and stops them in
// reverse order.
type ServiceRegistry struct {
	services []namedService
	started  int
	logger   Logger
}

// NewServiceRegistry creates an empty registry
func NewServiceRegistry(logger Logger) *ServiceRegistry {
	return &ServiceRegistry{
		logger: logger,
	}
}

// RegisterService stores a new service under the name. A name already
// registered is ignored.
func (s *ServiceRegistry) RegisterService(name string, service Service) {
	for _, registered := range s.services {
		if registered.name == name {
			s.logger.Warnf("Tried to add service %s that has already been registered", name)
			return
		}
	}
	s.services = append(s.services, namedService{name: name, service: service})
}

// Names returns the registered service names in registration order.
func (s *ServiceRegistry) Names() []string {
	names := make([]string, len(s.services))
	for i, registered := range s.services {
		names[i] = registered.name
	}
	return names
}

// StartAll calls `Service.Start()` for all registered Services. If a service
// fails to start, the services already started are stopped.
func (s *ServiceRegistry) StartAll(ctx context.Context) error {
	s.logger.Infof("Starting services: %v", s.Names())
	for _, registered := range s.services[s.started:] {
		s.logger.Debugf("Starting service %s", registered.name)
		if err := registered.service.Start(ctx); err != nil {
			startErr := fmt.Errorf("starting service %s: %w", registered.name, err)
			if stopErr := s.StopAll(); stopErr != nil {
				return errors.Join(startErr, stopErr)
			}
			return startErr
		}
		s.started++
	}
	s.logger.Debug("All services started.")
	return nil
}

// StopAll calls `Service.Stop()` for all started Services, in reverse order.
func (s *ServiceRegistry) StopAll() (err error) {
	s.logger.Infof("Stopping services: %v", s.Names()[:s.started])
	var errs []error
	for ; s.started > 0; s.started-- {
		registered := s.services[s.started-1]
		s.logger.Debugf("Stopping service %s", registered.name)
		if err := registered.service.Stop(); err != nil {
			s.logger.Errorf("Error stopping service %s: %s", registered.name, err)
			errs = append(errs, fmt.Errorf("stopping service %s: %w", registered.name, err))
		}
	}
	s.logger.Debug("All services stopped.")
	return errors.Join(errs...)
}

// Get returns the service registered under the name, or nil.
func (s *ServiceRegistry) Get(name string) Service {
	for _, registered := range s.services {
		if registered.name == name {
			return registered.service
		}
	}
	s.logger.Warnf("unknown service %s", name)
	return nil
}

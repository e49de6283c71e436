/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"errors"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/fw"
	"github.com/named-data/ndnfw/ndn"
)

// StrategyChoiceRecord is an entry of the strategy choice dataset.
type StrategyChoiceRecord struct {
	Name     string `toml:"name"`
	Strategy string `toml:"strategy"`
}

// StrategyChoiceDataset lists the strategy choices.
type StrategyChoiceDataset struct {
	Entries []StrategyChoiceRecord `toml:"entries"`
}

// RegisteredStrategiesDataset lists the strategies that can be chosen.
type RegisteredStrategiesDataset struct {
	Strategies []string `toml:"strategies"`
}

// StrategyChoiceModule is the module that handles Strategy Choice Management.
type StrategyChoiceModule struct {
	manager *Manager
}

func (s *StrategyChoiceModule) String() string {
	return "StrategyChoiceMgmt"
}

func (s *StrategyChoiceModule) registerManager(manager *Manager) {
	s.manager = manager
}

func (s *StrategyChoiceModule) getManager() *Manager {
	return s.manager
}

func (s *StrategyChoiceModule) handleIncomingInterest(interest *ndn.Interest, verb string) interface{} {
	switch verb {
	case "set":
		return s.set(interest)
	case "unset":
		return s.unset(interest)
	case "list":
		return s.list()
	case "registered":
		return s.registered()
	default:
		core.LogWarn(s, "Received Interest for non-existent verb '", verb, "'")
		return makeControlResponse(501, "Unknown verb", nil)
	}
}

func (s *StrategyChoiceModule) set(interest *ndn.Interest) *ControlResponse {
	params := decodeControlParameters(s, interest)
	if params == nil {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	prefix, ok := decodeName(s, params)
	if !ok {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	if params.Strategy == "" {
		core.LogWarn(s, "Missing Strategy in ControlParameters for ", interest.Name())
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	instanceName, err := ndn.NameFromString(params.Strategy)
	if err != nil {
		core.LogWarn(s, "Invalid Strategy=", params.Strategy, " in ControlParameters: ", err)
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	strategyChoice := s.manager.forwarder.StrategyChoice()
	if err := strategyChoice.Insert(prefix, instanceName); err != nil {
		if errors.Is(err, fw.ErrUnknownStrategy) {
			return makeControlResponse(404, "Unknown strategy", nil)
		}
		core.LogWarn(s, "Unable to set Strategy=", instanceName, " for Prefix=", prefix, ": ", err)
		return makeControlResponse(400, "Unable to set strategy", nil)
	}

	strategy, _ := strategyChoice.Get(prefix)
	return makeControlResponse(200, "OK", &ControlParameters{
		Name:     prefix.String(),
		Strategy: strategy.InstanceName().String(),
	})
}

func (s *StrategyChoiceModule) unset(interest *ndn.Interest) *ControlResponse {
	params := decodeControlParameters(s, interest)
	if params == nil {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	prefix, ok := decodeName(s, params)
	if !ok {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	if len(prefix) == 0 {
		core.LogWarn(s, "Cannot unset the strategy of the root prefix")
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	s.manager.forwarder.StrategyChoice().Erase(prefix)
	return makeControlResponse(200, "OK", &ControlParameters{Name: prefix.String()})
}

func (s *StrategyChoiceModule) list() *StrategyChoiceDataset {
	dataset := new(StrategyChoiceDataset)
	for _, entry := range s.manager.forwarder.StrategyChoice().List() {
		dataset.Entries = append(dataset.Entries, StrategyChoiceRecord{
			Name:     entry.Prefix.String(),
			Strategy: entry.InstanceName.String(),
		})
	}
	return dataset
}

func (s *StrategyChoiceModule) registered() *RegisteredStrategiesDataset {
	dataset := new(RegisteredStrategiesDataset)
	for _, strategyName := range s.manager.forwarder.Registry().ListRegistered() {
		dataset.Strategies = append(dataset.Strategies, strategyName.String())
	}
	return dataset
}

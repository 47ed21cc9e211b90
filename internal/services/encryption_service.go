package services

import (
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/crypto"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
)

// EncryptionService wraps the crypto service with domain-specific methods
type EncryptionService struct {
	crypto *crypto.EncryptionService
}

// NewEncryptionService creates a new encryption service
func NewEncryptionService(encryptionKey []byte) (*EncryptionService, error) {
	cryptoSvc, err := crypto.NewEncryptionService(encryptionKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{crypto: cryptoSvc}, nil
}

// EncryptCheckIn encrypts check-in notes before storing in DB
func (s *EncryptionService) EncryptCheckIn(ci *models.CheckIn) error {
	if ci.Notes != "" {
		encrypted, err := s.crypto.Encrypt(ci.Notes)
		if err != nil {
			return err
		}
		ci.Notes = encrypted
	}
	return nil
}

// DecryptCheckIn decrypts check-in notes after retrieving from DB
func (s *EncryptionService) DecryptCheckIn(ci *models.CheckIn) error {
	if ci.Notes != "" {
		decrypted, err := s.crypto.Decrypt(ci.Notes)
		if err != nil {
			return err
		}
		ci.Notes = decrypted
	}
	return nil
}

// EncryptBrainDump encrypts brain-dump content before storing in DB
func (s *EncryptionService) EncryptBrainDump(e *models.BrainDumpEntry) error {
	if e.Content != "" {
		encrypted, err := s.crypto.Encrypt(e.Content)
		if err != nil {
			return err
		}
		e.Content = encrypted
	}
	return nil
}

// DecryptBrainDump decrypts brain-dump content after retrieving from DB
func (s *EncryptionService) DecryptBrainDump(e *models.BrainDumpEntry) error {
	if e.Content != "" {
		decrypted, err := s.crypto.Decrypt(e.Content)
		if err != nil {
			return err
		}
		e.Content = decrypted
	}
	return nil
}

// DecryptProfile decrypts every encrypted nested entry on the aggregate
func (s *EncryptionService) DecryptProfile(p *models.Profile) error {
	for i := range p.CheckIns {
		if err := s.DecryptCheckIn(&p.CheckIns[i]); err != nil {
			return err
		}
	}
	for i := range p.BrainDumpEntries {
		if err := s.DecryptBrainDump(&p.BrainDumpEntries[i]); err != nil {
			return err
		}
	}
	return nil
}
